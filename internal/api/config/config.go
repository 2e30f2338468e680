package config

// Config 配置主体
type Config struct {
	Server              ServerConfig        `mapstructure:"server"`
	DB                  DBConfig            `mapstructure:"database"`
	Redis               RedisConfig         `mapstructure:"redis"`
	MinIO               MinIOConfig         `mapstructure:"minio"`
	Mongo               MongoConfig         `mapstructure:"mongo"`
	Elastic             ElasticConfig       `mapstructure:"elastic"`
	Logstash            LogstashConfig      `mapstructure:"logstash"`
	Auth                AuthConfig          `mapstructure:"auth"`
	Ingest              IngestConfig        `mapstructure:"ingest"`
	Cron                CronConfig          `mapstructure:"cron"`
	Kafka               KafkaConfig         `mapstructure:"kafka"`
	KafkaImportConsumer KafkaImportConsumer `mapstructure:"kafka_import_consumer"`
	KafkaIngestProducer KafkaIngestProducer `mapstructure:"kafka_ingest_producer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Timezone string `mapstructure:"timezone"`

	// AllowedOrigins 为空时不限制跨域来源
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DBConfig 数据库配置，driver 为 sqlite 或 mysql
type DBConfig struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MinIOConfig MinIO配置，用于归档原始导出文件
type MinIOConfig struct {
	Enable           bool   `mapstructure:"enable"`
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	ArchiveBucket    string `mapstructure:"archive_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	// RetentionDays 归档保留天数，0 表示永久保留
	RetentionDays int `mapstructure:"retention_days"`
}

// MongoConfig 变更记录存储
type MongoConfig struct {
	Enable   bool   `mapstructure:"enable"`
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// ElasticConfig 帖子标题检索
type ElasticConfig struct {
	Enable    bool   `mapstructure:"enable"`
	Address   string `mapstructure:"address"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	PostIndex string `mapstructure:"post_index"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// AuthConfig 写操作需要的 JWT 配置
type AuthConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// IngestConfig 导入行为
type IngestConfig struct {
	// Atomic 为 true 时四类数据在一个事务中提交
	Atomic bool `mapstructure:"atomic"`
	// MaxUploadMB 单个文件大小上限
	MaxUploadMB int `mapstructure:"max_upload_mb"`
}

type CronConfig struct {
	SummaryRefresh string `mapstructure:"summary_refresh"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaImportConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaIngestProducer struct {
	Topic string `mapstructure:"topic"`
}
