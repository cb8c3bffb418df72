package config

import "time"

type StatsConfig struct {
	DatabaseURL     string        `split_words:"true" required:"true"`
	RedisAddr       string        `split_words:"true" required:"true"`
	RabbitMQURL     string        `split_words:"true"`
	SyncedQueueName string        `split_words:"true" default:"stats.synced"`
	ServerPort      int           `split_words:"true" required:"true"`
	GithubTimeout   time.Duration `split_words:"true" default:"15s"`
	SyncLockTTL     time.Duration `split_words:"true" default:"2m"`
	CacheEnabled    bool          `split_words:"true" default:"true"`
}
