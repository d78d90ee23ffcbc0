package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"production"`
	Log        Log        `yaml:"log"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Metadata   Metadata   `yaml:"metadata"`
	PGSQL      PQSQL      `yaml:"pgsql"`
	Mongo      Mongo      `yaml:"mongo"`
	Blob       Blob       `yaml:"blob"`
	MinIO      MinIO      `yaml:"minio"`
	S3         S3         `yaml:"s3"`
	Redis      Redis      `yaml:"redis"`
	Upload     Upload     `yaml:"upload"`
	JWTSecret  string     `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"super_secret_key"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Metadata selects the document store holding video records and users.
type Metadata struct {
	Driver string `yaml:"driver" env:"METADATA_DRIVER" env-default:"postgres"`
}

type PQSQL struct {
	Host     string `yaml:"host" env:"PGSQL_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PGSQL_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PGSQL_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PGSQL_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PGSQL_DBNAME" env-default:"expressions_db"`
	SSLMode  string `yaml:"sslmode" env:"PGSQL_SSLMODE" env-default:"disable"`
}

type Mongo struct {
	URI      string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"expressions"`
}

// Blob selects the remote store holding video bytes.
type Blob struct {
	Driver       string `yaml:"driver" env:"BLOB_DRIVER" env-default:"minio"`
	FolderPrefix string `yaml:"folder_prefix" env:"BLOB_FOLDER_PREFIX" env-default:"videos/uploads"`
}

type MinIO struct {
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY"`
	BucketName      string `yaml:"bucket_name" env:"MINIO_BUCKET_NAME" env-default:"expressions"`
	UseSSL          bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type S3 struct {
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET"`
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `yaml:"use_path_style" env:"S3_USE_PATH_STYLE" env-default:"false"`
	PublicBaseURL   string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

type Redis struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Upload struct {
	MaxFileSize          int64 `yaml:"max_file_size" env:"UPLOAD_MAX_FILE_SIZE" env-default:"104857600"`
	MaxMemory            int64 `yaml:"max_memory" env:"UPLOAD_MAX_MEMORY" env-default:"10485760"`
	ReconcileConcurrency int   `yaml:"reconcile_concurrency" env:"UPLOAD_RECONCILE_CONCURRENCY" env-default:"8"`
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist at path: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Metadata.Driver {
	case "postgres", "mongo", "memory":
	default:
		return fmt.Errorf("unsupported metadata driver %q", c.Metadata.Driver)
	}

	switch c.Blob.Driver {
	case "minio", "memory":
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required when blob driver is s3")
		}
	default:
		return fmt.Errorf("unsupported blob driver %q", c.Blob.Driver)
	}

	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("upload.max_file_size must be positive")
	}

	return nil
}

func MustLoad() *Config {
	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%s", err)
	}

	return cfg
}
