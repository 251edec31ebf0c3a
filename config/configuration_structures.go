package config

import "github.com/aws/aws-sdk-go-v2/service/s3"

type DatabaseConfig struct {
	DSN           string `yaml:"dsn"`
	MigrationsDir string `yaml:"migrations_dir"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Client   *s3.Client
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

type JWTConfig struct {
	SecretKey       string `yaml:"secret_key"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
}

type AdminConfig struct {
	AdminToken string `yaml:"admin_token"`
}

// UploadConfig : ограничения и каталог для загружаемых таблиц
type UploadConfig struct {
	Dir          string `yaml:"dir"`
	MaxSizeBytes int64  `yaml:"max_size_bytes"`
}

// WorkerConfig : параметры пула обработки загруженных файлов
type WorkerConfig struct {
	Workers           int    `yaml:"workers"`
	QueueSize         int    `yaml:"queue_size"`
	ProcessingTimeout string `yaml:"processing_timeout"`
}

type TTL struct {
	S3AndRedis int `yaml:"s3_and_redis"`
}
