package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yunginnanet/gpio-hx711/pkg/ft232h"
	"github.com/yunginnanet/gpio-hx711/pkg/hostgpio"
	"github.com/yunginnanet/gpio-hx711/pkg/hx711"
	"github.com/yunginnanet/gpio-hx711/pkg/publish"
)

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	log = zerolog.New(cw).With().Timestamp().Logger()
}

type options struct {
	backend string

	ftIndex int
	clkPin  uint
	doutPin uint

	clkName  string
	doutName string

	gain     int
	samples  int
	interval time.Duration

	tare      bool
	reference float64
	scale     float64

	mqtt publish.MQTTConfig
}

func flags() options {
	var opts options

	flag.StringVar(&opts.backend, "backend", "ftdi", "pin backend: ftdi or gpio")

	flag.IntVar(&opts.ftIndex, "FT232H", 0, "FT232H Index (ftdi backend)")
	flag.UintVar(&opts.clkPin, "CLK", 0x01, "PD_SCK line (GPIO, ftdi backend)")
	flag.UintVar(&opts.doutPin, "DOUT", 0x02, "DOUT line (GPIO, ftdi backend)")

	flag.StringVar(&opts.clkName, "clk", "GPIO6", "PD_SCK pin name (gpio backend)")
	flag.StringVar(&opts.doutName, "dout", "GPIO5", "DOUT pin name (gpio backend)")

	flag.IntVar(&opts.gain, "gain", 128, "gain: 128 or 64 (channel A), 32 (channel B)")
	flag.IntVar(&opts.samples, "samples", 10, "samples averaged per reading")
	flag.DurationVar(&opts.interval, "interval", time.Second, "time between readings")

	flag.BoolVar(&opts.tare, "tare", true, "tare with the sensor unloaded at startup")
	flag.Float64Var(&opts.reference, "calibrate", 0, "reference weight on the sensor; calibrates at startup when nonzero")
	flag.Float64Var(&opts.scale, "scale", 1, "scale divisor applied to readings")

	flag.StringVar(&opts.mqtt.Server, "mqtt-server", "", "MQTT broker (tcp://host:port); console output when empty")
	flag.StringVar(&opts.mqtt.Topic, "mqtt-topic", publish.DefaultTopic, "MQTT topic")
	flag.StringVar(&opts.mqtt.ClientID, "mqtt-client-id", publish.DefaultClientID, "MQTT client id")
	flag.StringVar(&opts.mqtt.Username, "mqtt-user", "", "MQTT username")
	flag.StringVar(&opts.mqtt.Password, "mqtt-pass", "", "MQTT password")

	flag.Parse()
	return opts
}

func openPins(opts options) hx711.PinInterface {
	switch opts.backend {
	case "ftdi":
		ft, err := ft232h.ConnectFT232h(ft232h.ByIndex(opts.ftIndex))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to FT232H")
		}
		log.Info().Msgf("connected to FT232H: %s", ft)
		if err = ft.SetClockPin(opts.clkPin); err != nil {
			log.Fatal().Err(err).Msg("failed to configure PD_SCK pin")
		}
		if err = ft.SetDataPin(opts.doutPin); err != nil {
			log.Fatal().Err(err).Msg("failed to configure DOUT pin")
		}
		return ft
	case "gpio":
		pins, err := hostgpio.Open(opts.clkName, opts.doutName)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open host GPIO pins")
		}
		return pins
	default:
		log.Fatal().Str("backend", opts.backend).Msg("unknown backend")
		return nil
	}
}

func gainFor(n int) hx711.Gain {
	switch n {
	case 128:
		return hx711.GainA128
	case 64:
		return hx711.GainA64
	case 32:
		return hx711.GainB32
	default:
		log.Warn().Int("gain", n).Msg("unsupported gain, using 128")
		return hx711.GainA128
	}
}

func main() {
	opts := flags()

	adc := hx711.New(openPins(opts))

	cfg := hx711.DefaultConfig()
	cfg.Gain = gainFor(opts.gain)

	log.Debug().Stringer("gain", cfg.Gain).Msg("initializing HX711")
	if err := adc.Initialize(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize HX711")
	}

	scale := hx711.NewScale(adc)
	scale.SetScale(opts.scale)

	if opts.tare {
		log.Info().Msg("taring, keep the sensor unloaded")
		if err := scale.Tare(opts.samples); err != nil {
			log.Fatal().Err(err).Msg("failed to tare")
		}
		log.Info().Int32("offset", scale.Offset()).Msg("tared")
	}

	if opts.reference != 0 {
		log.Info().Float64("reference", opts.reference).Msg("calibrating, place the reference weight")
		if err := scale.Calibrate(opts.reference); err != nil {
			log.Fatal().Err(err).Msg("failed to calibrate")
		}
	}

	var (
		sink publish.Publisher
		err  error
	)
	if opts.mqtt.Server != "" {
		if sink, err = publish.NewMQTT(opts.mqtt); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MQTT broker")
		}
		log.Info().Str("server", opts.mqtt.Server).Str("topic", opts.mqtt.Topic).Msg("publishing to MQTT")
	} else {
		sink = publish.NewConsole(nil)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()

	for {
		select {
		case <-sigs:
			log.Info().Msg("shutting down")
			if err = sink.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close publisher")
			}
			if err = adc.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close HX711")
			}
			return
		case <-ticker.C:
			raw, units, rerr := scale.Weigh(opts.samples)
			if rerr != nil {
				log.Error().Err(rerr).Msg("read failed")
				continue
			}
			r := publish.Reading{Raw: int32(raw), Units: units, Timestamp: time.Now()}
			if perr := sink.Publish(r); perr != nil {
				log.Error().Err(perr).Msg("publish failed")
			}
		}
	}
}
