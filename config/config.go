package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/config.yml"

type (
	// Config -.
	Config struct {
		App      `yaml:"app"`
		Server   `yaml:"server"`
		Log      `yaml:"logger"`
		Model    `yaml:"model"`
		Pipeline `yaml:"pipeline"`
		TTS      `yaml:"tts"`
		MYSQL    `yaml:"mysql"`
		S3       `yaml:"s3"`
		RMQ      `yaml:"rabbitmq"`
		OTEL     `yaml:"otel"`
	}

	// App -.
	App struct {
		Name    string `env-required:"true" yaml:"name"    env:"APP_NAME"`
		Version string `env-required:"true" yaml:"version" env:"APP_VERSION"`
	}

	// Server -.
	Server struct {
		Port     string `env-required:"true" yaml:"port"      env:"HTTP_PORT"`
		BasePath string `yaml:"base_path" env:"HTTP_BASE_PATH" env-default:"/api/compute/"`
	}

	// Log -.
	Log struct {
		Level string `env-required:"true" yaml:"log_level"   env:"LOG_LEVEL"`
	}

	// Model describes the segmentation model used by the background removal route.
	Model struct {
		Endpoint         string        `env-required:"true" yaml:"endpoint" env:"MODEL_ENDPOINT"`
		HealthPath       string        `yaml:"health_path"        env:"MODEL_HEALTH_PATH"`
		InputSize        int           `yaml:"input_size"         env:"MODEL_INPUT_SIZE"         env-default:"256"`
		Timeout          time.Duration `yaml:"timeout"            env:"MODEL_TIMEOUT"            env-default:"30s"`
		ReloadPerRequest bool          `yaml:"reload_per_request" env:"MODEL_RELOAD_PER_REQUEST" env-default:"false"`
		RefreshSchedule  string        `yaml:"refresh_schedule"   env:"MODEL_REFRESH_SCHEDULE"`
	}

	// Pipeline -.
	Pipeline struct {
		ImageFormat string `yaml:"image_format" env:"PIPELINE_IMAGE_FORMAT" env-default:"png"`
		AudioFormat string `yaml:"audio_format" env:"PIPELINE_AUDIO_FORMAT" env-default:"mp3"`
		SampleRate  int    `yaml:"sample_rate"  env:"PIPELINE_SAMPLE_RATE"  env-default:"44100"`
	}

	// TTS -.
	TTS struct {
		Endpoint string        `yaml:"endpoint" env:"TTS_ENDPOINT"`
		Voice    string        `yaml:"voice"    env:"TTS_VOICE"`
		Format   string        `yaml:"format"   env:"TTS_FORMAT"  env-default:"wav"`
		Timeout  time.Duration `yaml:"timeout"  env:"TTS_TIMEOUT" env-default:"30s"`
	}

	// MYSQL -.
	MYSQL struct {
		Host     string `yaml:"host"     env:"MYSQL_HOST"`
		Port     string `yaml:"port"     env:"MYSQL_PORT" env-default:"3306"`
		Username string `yaml:"username" env:"MYSQL_USERNAME"`
		Password string `yaml:"password" env:"MYSQL_PASSWORD"`
		Dbname   string `yaml:"dbname"   env:"MYSQL_DBNAME"`
	}

	// S3 -.
	S3 struct {
		Endpoint  string `yaml:"endpoint"   env:"S3_ENDPOINT"`
		Region    string `yaml:"region"     env:"S3_REGION" env-default:"us-east-1"`
		AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
		SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
		Bucket    string `yaml:"bucket"     env:"S3_BUCKET"`
	}

	// RMQ -.
	RMQ struct {
		URL      string `yaml:"url"      env:"RMQ_URL"`
		Exchange string `yaml:"exchange" env:"RMQ_EXCHANGE" env-default:"ailetic"`
	}

	OTEL struct {
		JaegerEndpoint string `yaml:"jaeger_endpoint" env:"JAEGER_ENDPOINT"`
		OTLPEndpoint   string `yaml:"otlp_endpoint"   env:"OTLP_ENDPOINT"`
	}
)

// NewConfig returns app config.
func NewConfig() (*Config, error) {
	path := defaultConfigPath
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		path = p
	}

	return NewConfigFrom(path)
}

// NewConfigFrom reads the yaml file at path; environment variables take precedence.
func NewConfigFrom(path string) (*Config, error) {
	cfg := &Config{}

	err := cleanenv.ReadConfig(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
