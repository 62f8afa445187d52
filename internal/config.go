package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host               string        `env:"HOST,required=true"`
	Port               int           `env:"PORT,required=true"`
	LogLevel           string        `env:"LOG_LEVEL,required=true"`
	BadgerFilepath     string        `env:"BADGER_FILEPATH,required=true"`
	LimitMessages      *int          `env:"LIMIT_MESSAGES"`
	MessageCost        int64         `env:"MESSAGE_COST,required=true"`
	BridgeURL          string        `env:"BRIDGE_URL,required=true"`
	EmailGatewayURL    string        `env:"EMAIL_GATEWAY_URL,required=true"`
	ResponderURL       string        `env:"RESPONDER_URL,required=true"`
	ChannelTimeout     time.Duration `env:"CHANNEL_TIMEOUT,required=true"`
	BotDispatchTimeout time.Duration `env:"BOT_DISPATCH_TIMEOUT,required=true"`
	DispatchBufferSize int           `env:"DISPATCH_BUFFER_SIZE,required=true"`
	RestartInterval    time.Duration `env:"RESTART_INTERVAL,required=true"`
	MetricInterval     time.Duration `env:"METRIC_INTERVAL,required=true"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,required=true"`
}

func (c Config) Validate() error {
	if c.MessageCost <= 0 {
		return fmt.Errorf("MESSAGE_COST must be positive, got %d", c.MessageCost)
	}
	if c.DispatchBufferSize <= 0 {
		return fmt.Errorf("DISPATCH_BUFFER_SIZE must be positive, got %d", c.DispatchBufferSize)
	}
	return nil
}
