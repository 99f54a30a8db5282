package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort       int
	DatabasePath     string
	JWTSecret        string
	UploadDir        string
	LeafModelPath    string
	SkinModelPath    string
	ClassesPath      string
	ONNXLibPath      string // path to libonnxruntime.so; empty means the runtime default
	RetentionDays    int    // uploads older than this are swept; 0 disables the sweeper
	RetentionSpec    string // cron expression for the retention sweep
	DiskAlertPercent float64
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	retentionDays, err := strconv.Atoi(getEnv("UPLOAD_RETENTION_DAYS", "0"))
	if err != nil {
		return nil, err
	}

	alertPercent, err := strconv.ParseFloat(getEnv("DISK_ALERT_PERCENT", "90"), 64)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:       port,
		DatabasePath:     getEnv("DATABASE_PATH", "./herballink.db"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret-key-change-me"),
		UploadDir:        getEnv("UPLOAD_DIR", "./uploads"),
		LeafModelPath:    getEnv("LEAF_MODEL_PATH", "model1.onnx"),
		SkinModelPath:    getEnv("SKIN_MODEL_PATH", "skin_disease_model.onnx"),
		ClassesPath:      getEnv("CLASSES_TXT", "classes.txt"),
		ONNXLibPath:      getEnv("ONNX_LIB_PATH", ""),
		RetentionDays:    retentionDays,
		RetentionSpec:    getEnv("RETENTION_SCHEDULE", "0 3 * * *"),
		DiskAlertPercent: alertPercent,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
