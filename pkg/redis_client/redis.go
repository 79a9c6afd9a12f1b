package redis_client

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/trainboard/trainboard/pkg/util"
)

var Client *redis.Client

const defaultConnectionPassword = ""
const defaultDatabase = 0

// Enabled reports whether a redis address has been configured. Without one
// the service runs with in-process caching only.
func Enabled() bool {
	return util.GetEnvironmentVariables()["TRAINBOARD_REDIS_ADDRESS"] != ""
}

func Connect() error {
	env := util.GetEnvironmentVariables()

	address := env["TRAINBOARD_REDIS_ADDRESS"]
	password := util.EnvironmentOrDefault(env, "TRAINBOARD_REDIS_PASSWORD", defaultConnectionPassword)
	database := defaultDatabase

	if env["TRAINBOARD_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["TRAINBOARD_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return err
	}

	Client = client

	return nil
}
