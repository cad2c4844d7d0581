package env

import "os"

type Env = string

const (
  DEV  Env = "DEV"
  PROD Env = "PROD"
)

func AppEnv() Env {
  if os.Getenv("ENV") == PROD {
    return PROD
  }
  return DEV
}

func IsProduction() bool {
  return AppEnv() == PROD
}
