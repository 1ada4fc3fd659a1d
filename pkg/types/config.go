package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	DBMaxConns      int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	DBPingTimeout   uint   `envconfig:"DB_PING_TIMEOUT_SEC" default:"5"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Notifications
	EmailEnabled     bool   `envconfig:"EMAIL_ENABLED" default:"false"`
	SESFromEmail     string `envconfig:"SES_FROM_EMAIL" default:"no-reply@barangay.local"`
	NotifyTimeoutSec uint   `envconfig:"NOTIFY_TIMEOUT_SEC" default:"10"`

	// Requirement file storage
	S3BucketName     string `envconfig:"S3_BUCKET_NAME"`
	PresignExpirySec uint   `envconfig:"PRESIGN_EXPIRY_SEC" default:"900"`

	// Lifecycle behaviour switches
	LegacyRemarksSignal   bool `envconfig:"LEGACY_REMARKS_SIGNAL" default:"true"`
	EnforceOrdering       bool `envconfig:"ENFORCE_ORDERING" default:"false"`
	DedupePickupNotice    bool `envconfig:"DEDUPE_PICKUP_NOTICE" default:"false"`
	FreezeDatesAtApproval bool `envconfig:"FREEZE_DATES_AT_APPROVAL" default:"false"`

	Office Office `envconfig:"OFFICE"`
}

// Office identifies the issuing barangay on every certificate. Variables are
// read with the OFFICE_ prefix, e.g. OFFICE_BARANGAY_NAME.
type Office struct {
	BarangayName string `envconfig:"BARANGAY_NAME" default:"Barangay San Isidro"`
	Municipality string `envconfig:"MUNICIPALITY" default:"Municipality of San Jose"`
	Province     string `envconfig:"PROVINCE" default:"Province of Batangas"`
	CaptainName  string `envconfig:"CAPTAIN_NAME" default:"HON. JUAN DELA CRUZ"`
	Address      string `envconfig:"ADDRESS"`
}
