package config

import "os"

func IsDebug() bool {
	return os.Getenv("TIAN_DEBUG") == "1"
}
