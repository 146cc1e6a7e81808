package config

import "github.com/pitabwire/frame"

type PaymentConfig struct {
	frame.ConfigurationDefault

	PaystackSecretKey string `envDefault:"sk_test_9c1d7f0a4b3e8d2f6a5c0b9e8d7f6a5c0b9e8d7f" env:"PAYSTACK_SECRET_KEY"`
	PaystackPublicKey string `envDefault:"pk_test_3d8f2b1a6c5e0d9f4a3b2c1d6e5f0a9b4c3d2e1f" env:"PAYSTACK_PUBLIC_KEY"`
	PaystackBaseURL   string `envDefault:"https://api.paystack.co" env:"PAYSTACK_BASE_URL"`

	// Where the hosted checkout sends buyers once they complete or dismiss a payment.
	CheckoutCallbackURL string `envDefault:"http://localhost:5001/api/payments/checkout/callback" env:"CHECKOUT_CALLBACK_URL"`

	Currency string `envDefault:"GHS" env:"PAYMENT_CURRENCY"`

	// Platform cut applied when a farmer has no configured percentage charge.
	DefaultPercentageCharge string `envDefault:"10" env:"DEFAULT_PERCENTAGE_CHARGE"`

	NATS_URL              string `envDefault:"nats://nats:4222?subject=" env:"NATS_URL"`
	PaymentInitiatedTopic string `envDefault:"payment.initiated" env:"PAYMENT_INITIATED_TOPIC"`
	PaymentSettledTopic   string `envDefault:"payment.settled" env:"PAYMENT_SETTLED_TOPIC"`

	RedisHost string `envDefault:"localhost" env:"REDIS_HOST"`
	RedisPort string `envDefault:"6379" env:"REDIS_PORT"`

	DO_MIGRATION bool `envDefault:"false" env:"DO_MIGRATION"`
}
