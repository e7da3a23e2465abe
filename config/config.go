package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"clover-api"`
	Port                          int      `env:"PORT" env-default:"3000"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"60"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"POST,OPTIONS,GET"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// Database driver
	DatabaseDriver string `env:"DB_DRIVER" env-default:"postgres"`
	// Database host
	DatabaseHost string `env:"DB_HOST" env-default:""`
	// Database port
	DatabasePort string `env:"DB_PORT" env-default:"5432"`
	// Database user
	DatabaseUserName string `env:"DB_USER_NAME" env-default:""`
	// Database user password
	DatabasePassword string `env:"DB_PASSWORD" env-default:""`
	// Database name
	DatabaseName string `env:"DB_NAME" env-default:"clover"`
	// Database SSL Mode
	DatabaseSSLMode string `env:"DB_SQL_MODE" env-default:"disable"`
	// Max Open Conns
	DatabaseMaxOpenConns int `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	// Max Idle Conns
	DatabaseMaxIdleConns int `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	// Conn Max Lifetime
	DatabaseConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	// Migration Folder Path
	DatabaseMigrationFolderPath string `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	// Database Migration Version
	DatabaseMigrationVersion int `env:"DB_MIGRATION_VERSION" env-default:"0"`
	// Database Migration Force
	DatabaseMigrationForce int `env:"DB_MIGRATION_FORCE" env-default:"0"`
	// Database Migration Auto Rollback
	DatabaseMigrationAutoRollback bool `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Redis is optional. When configured, the registration flow and forum
	// channel bootstrap serialize their check-then-act sequences on a lock.
	RedisEnabled  bool   `env:"REDIS_ENABLED" env-default:"false"`
	RedisHost     string `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	// Kafka is optional. Activity entries are mirrored onto the events topic
	// best-effort when brokers are configured.
	KafkaBrokers     []string `env:"KAFKA_BROKERS" env-default:""`
	KafkaEventsTopic string   `env:"KAFKA_EVENTS_TOPIC" env-default:"agent-events"`

	// Public base URL advertised in merged operating profiles and the
	// onboarding block.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" env-default:"http://localhost:3000"`

	// Shared secrets. An empty value leaves the corresponding gate open.
	AgentAutomationSecret string `env:"AGENT_AUTOMATION_SECRET" env-default:""`
	SelfRegisterSecret    string `env:"SELF_REGISTER_SECRET" env-default:""`

	// Search provider
	BraveAPIKey        string `env:"BRAVE_API_KEY" env-default:""`
	BraveSearchBaseURL string `env:"BRAVE_SEARCH_BASE_URL" env-default:"https://api.search.brave.com/res/v1/web/search"`

	// Model registries polled by the discovery sweep
	HuggingFaceToken string `env:"HUGGINGFACE_TOKEN" env-default:""`
	GeminiAPIKey     string `env:"GEMINI_API_KEY" env-default:""`

	// Speech synthesis
	OpenAIAPIKey     string `env:"OPENAI_API_KEY" env-default:""`
	ElevenLabsAPIKey string `env:"ELEVENLABS_API_KEY" env-default:""`

	// Commerce
	ShopifyAdminToken string `env:"SHOPIFY_ADMIN_TOKEN" env-default:""`
	ShopifyAPIVersion string `env:"SHOPIFY_API_VERSION" env-default:"2024-10"`

	// Workflow engine
	N8nBaseURL string `env:"N8N_BASE_URL" env-default:""`
	N8nAPIKey  string `env:"N8N_API_KEY" env-default:""`

	// Voice sessions
	LiveKitAPIKey    string `env:"LIVEKIT_API_KEY" env-default:""`
	LiveKitAPISecret string `env:"LIVEKIT_API_SECRET" env-default:""`
	LiveKitWSURL     string `env:"LIVEKIT_WS_URL" env-default:""`

	// Remote command execution
	RemoteRunnerURL   string `env:"REMOTE_RUNNER_URL" env-default:""`
	RemoteRunnerToken string `env:"REMOTE_RUNNER_TOKEN" env-default:""`
	SSHHost           string `env:"SSH_HOST" env-default:""`
	SSHUser           string `env:"SSH_USER" env-default:"root"`
	SSHPort           int    `env:"SSH_PORT" env-default:"22"`

	// Tracing
	TracingEnabled      bool   `env:"TRACING_ENABLED" env-default:"false"`
	TracingExporter     string `env:"TRACING_EXPORTER" env-default:"console"`
	TracingOTLPEndpoint string `env:"TRACING_OTLP_ENDPOINT" env-default:""`
}
