package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/internal/providers/weather"
	"github.com/sandevgo/tianbot/internal/service/advisor"
	"github.com/sandevgo/tianbot/internal/service/memory"
)

type mockWeather struct {
	lookupFn   func(ctx context.Context, name string) *core.Location
	nowFn      func(ctx context.Context, id string) *core.WeatherNow
	snapshotFn func(ctx context.Context, city string) (*core.WeatherSnapshot, error)
}

func (m *mockWeather) LookupCity(ctx context.Context, name string) *core.Location {
	return m.lookupFn(ctx, name)
}

func (m *mockWeather) Now(ctx context.Context, id string) *core.WeatherNow {
	return m.nowFn(ctx, id)
}

func (m *mockWeather) Snapshot(ctx context.Context, city string) (*core.WeatherSnapshot, error) {
	return m.snapshotFn(ctx, city)
}

type mockIndex struct {
	addFn    func(ctx context.Context, text string, metadata map[string]any) memory.Result
	searchFn func(ctx context.Context, query string, k int) ([]memory.Match, memory.Result)
}

func (m *mockIndex) AddText(ctx context.Context, text string, metadata map[string]any) memory.Result {
	return m.addFn(ctx, text, metadata)
}

func (m *mockIndex) Search(ctx context.Context, query string, k int) ([]memory.Match, memory.Result) {
	return m.searchFn(ctx, query, k)
}

func newTestRegistry(t *testing.T, w *mockWeather, idx *mockIndex) *Registry {
	t.Helper()
	reg, err := NewDefaultRegistry(w, idx)
	require.NoError(t, err)
	return reg
}

func TestDefaultRegistry_Order(t *testing.T) {
	reg := newTestRegistry(t, &mockWeather{}, &mockIndex{})

	var names []string
	for _, d := range reg.Descriptors() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		"fetch_weather_data",
		"get_weather_guide",
		"get_clothing_advice",
		"get_outdoor_activity_advice",
		"get_travel_alert",
		"get_packing_context",
		"search_user_memories",
		"save_user_memory",
	}, names)
}

func TestFetchWeatherData(t *testing.T) {
	ctx := context.Background()

	t.Run("city not found", func(t *testing.T) {
		reg := newTestRegistry(t, &mockWeather{
			snapshotFn: func(ctx context.Context, city string) (*core.WeatherSnapshot, error) {
				return nil, fmt.Errorf("%w: %s", weather.ErrCityNotFound, city)
			},
		}, &mockIndex{})

		out := reg.Invoke(ctx, "fetch_weather_data", json.RawMessage(`{"city":"亚特兰蒂斯"}`))
		require.NoError(t, out.Err)
		assert.Equal(t, "未找到城市：亚特兰蒂斯", out.Text)
	})

	t.Run("snapshot json", func(t *testing.T) {
		reg := newTestRegistry(t, &mockWeather{
			snapshotFn: func(ctx context.Context, city string) (*core.WeatherSnapshot, error) {
				return &core.WeatherSnapshot{
					Location: "上海",
					Now:      &core.WeatherNow{Temp: "20", Text: "多云"},
					Warning:  []core.WeatherWarning{},
				}, nil
			},
		}, &mockIndex{})

		out := reg.Invoke(ctx, "fetch_weather_data", json.RawMessage(`{"city":"上海"}`))
		require.NoError(t, out.Err)
		assert.JSONEq(t, `{
			"location": "上海",
			"now": {"temp": "20", "text": "多云"},
			"daily": null,
			"indices": null,
			"warning": []
		}`, out.Text)
	})

	t.Run("fetch failure is reported as text", func(t *testing.T) {
		reg := newTestRegistry(t, &mockWeather{
			snapshotFn: func(ctx context.Context, city string) (*core.WeatherSnapshot, error) {
				return nil, context.DeadlineExceeded
			},
		}, &mockIndex{})

		out := reg.Invoke(ctx, "fetch_weather_data", json.RawMessage(`{"city":"上海"}`))
		require.NoError(t, out.Err)
		assert.Equal(t, "获取天气失败: context deadline exceeded", out.Text)
	})
}

func TestWeatherGuide(t *testing.T) {
	reg := newTestRegistry(t, &mockWeather{
		lookupFn: func(ctx context.Context, name string) *core.Location {
			return &core.Location{ID: "1", Name: name}
		},
		nowFn: func(ctx context.Context, id string) *core.WeatherNow {
			return &core.WeatherNow{Temp: "-5", FeelsLike: "-9", Text: "小雪", WindScale: "2", Humidity: "60", Vis: "10"}
		},
	}, &mockIndex{})

	out := reg.Invoke(context.Background(), "get_weather_guide", json.RawMessage(`{"city":"哈尔滨"}`))
	require.NoError(t, out.Err)
	assert.Contains(t, out.Text, "【当前哈尔滨天气】")
	assert.Contains(t, out.Text, "【出行指南】")
}

func TestAdvisorTools(t *testing.T) {
	reg := newTestRegistry(t, &mockWeather{}, &mockIndex{})
	ctx := context.Background()

	tests := []struct {
		name string
		tool string
		args string
		want string
	}{
		{
			name: "clothing with numeric temp",
			tool: "get_clothing_advice",
			args: `{"temp":23,"text":"晴","indices":[{"type":"3","category":"舒适","text":"建议穿长袖衬衫。"}]}`,
			want: advisor.Clothing(
				&core.WeatherNow{Temp: "23", Text: "晴"},
				[]core.LifeIndex{{Type: "3", Category: "舒适", Text: "建议穿长袖衬衫。"}},
			),
		},
		{
			name: "clothing with numeric index type",
			tool: "get_clothing_advice",
			args: `{"temp":"5","text":"阴","indices":[{"type":3,"category":"较冷","text":"建议着厚外套。"}]}`,
			want: "【👔 穿衣建议】\n当前气温 5°C。\n建议：较冷。建议着厚外套。",
		},
		{
			name: "outdoor in rain",
			tool: "get_outdoor_activity_advice",
			args: `{"text":"小雨","indices":[]}`,
			want: "【🏃 户外活动】\n🚫 正在下雨（小雨），不建议进行户外高强度活动。",
		},
		{
			name: "travel alert clear",
			tool: "get_travel_alert",
			args: `{"warnings":[]}`,
			want: advisor.TravelAlertClear,
		},
		{
			name: "travel alert active",
			tool: "get_travel_alert",
			args: `{"warnings":[{"typeName":"暴雨","level":"黄色","text":"注意防范"}]}`,
			want: "【⚠️ 旅行警报】\n发现 1 条生效预警，请注意安全：\n🔴 暴雨黄色预警：注意防范",
		},
		{
			name: "packing without forecast",
			tool: "get_packing_context",
			args: `{"daily":[]}`,
			want: advisor.PackingNoForecast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := reg.Invoke(ctx, tt.tool, json.RawMessage(tt.args))
			require.NoError(t, out.Err)
			assert.Equal(t, tt.want, out.Text)
		})
	}
}

func TestMemoryTools(t *testing.T) {
	ctx := context.Background()

	t.Run("search joins texts", func(t *testing.T) {
		var gotK int
		reg := newTestRegistry(t, &mockWeather{}, &mockIndex{
			searchFn: func(ctx context.Context, query string, k int) ([]memory.Match, memory.Result) {
				gotK = k
				return []memory.Match{
					{MemoryRecord: core.MemoryRecord{Text: "怕冷"}},
					{MemoryRecord: core.MemoryRecord{Text: "喜欢爬山"}},
				}, memory.Result{Status: memory.StatusSuccess}
			},
		})

		out := reg.Invoke(ctx, "search_user_memories", json.RawMessage(`{"query":"偏好"}`))
		require.NoError(t, out.Err)
		assert.Equal(t, "怕冷; 喜欢爬山", out.Text)
		assert.Equal(t, 5, gotK)
	})

	t.Run("search empty", func(t *testing.T) {
		reg := newTestRegistry(t, &mockWeather{}, &mockIndex{
			searchFn: func(ctx context.Context, query string, k int) ([]memory.Match, memory.Result) {
				return nil, memory.Result{Status: memory.StatusEmpty}
			},
		})

		out := reg.Invoke(ctx, "search_user_memories", json.RawMessage(`{"query":"偏好"}`))
		require.NoError(t, out.Err)
		assert.Equal(t, "未找到相关用户记忆。", out.Text)
	})

	t.Run("search failure is a tool failure", func(t *testing.T) {
		reg := newTestRegistry(t, &mockWeather{}, &mockIndex{
			searchFn: func(ctx context.Context, query string, k int) ([]memory.Match, memory.Result) {
				return nil, memory.Result{Status: memory.StatusFailed, Err: errors.New("embedder down")}
			},
		})

		out := reg.Invoke(ctx, "search_user_memories", json.RawMessage(`{"query":"偏好"}`))
		assert.True(t, out.Failed())
		assert.Equal(t, "Error calling search_user_memories: memory search failed: embedder down", out.Observation())
	})

	t.Run("save acknowledges even on failure", func(t *testing.T) {
		var saved string
		reg := newTestRegistry(t, &mockWeather{}, &mockIndex{
			addFn: func(ctx context.Context, text string, metadata map[string]any) memory.Result {
				saved = text
				return memory.Result{Status: memory.StatusFailed, Err: errors.New("disk full")}
			},
		})

		out := reg.Invoke(ctx, "save_user_memory", json.RawMessage(`{"content":"我怕冷"}`))
		require.NoError(t, out.Err)
		assert.Equal(t, "已保存用户记忆。", out.Text)
		assert.Equal(t, "我怕冷", saved)
	})
}
