package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	Mongo    Mongo    `envPrefix:"MONGO_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	AuditDB  AuditDB  `envPrefix:"AUDIT_DB_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	Storage  Storage  `envPrefix:"STORAGE_"`
	Razorpay Razorpay `envPrefix:"RAZORPAY_"`
	Paypal   Paypal   `envPrefix:"PAYPAL_"`
	PhonePe  PhonePe  `envPrefix:"PHONEPE_"`
}

type Mongo struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"houseplans"`
}

type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// AuditDB is the relational store for the payment event ledger.
type AuditDB struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite | mysql
	URL    string `env:"URL" envDefault:"payment_events.db"`
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
}

type Storage struct {
	Bucket        string `env:"S3_BUCKET"`
	Region        string `env:"S3_REGION" envDefault:"ap-south-1"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

type Razorpay struct {
	KeyID     string `env:"KEY_ID"`
	KeySecret string `env:"KEY_SECRET"`
}

type Paypal struct {
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	// VerifyCapture makes the server look the PayPal order up before
	// trusting a client-submitted payment result.
	VerifyCapture bool `env:"VERIFY_CAPTURE" envDefault:"false"`
}

type PhonePe struct {
	BaseApiURL  string `env:"BASE_API_URL" envDefault:"https://api-preprod.phonepe.com/apis/pg-sandbox"`
	MerchantID  string `env:"MERCHANT_ID"`
	SaltKey     string `env:"SALT_KEY"`
	SaltIndex   string `env:"SALT_INDEX" envDefault:"1"`
	RedirectURL string `env:"REDIRECT_URL"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
