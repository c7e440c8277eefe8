package config

import (
	"lendpool/core"
	"lendpool/pkg/compound"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/config"
)

// Load load config file
func Load(cfgFile string, cfg *Config) error {
	config.AutomaticLoadEnv("LENDPOOL")
	if err := config.LoadYaml(cfgFile, cfg); err != nil {
		return err
	}

	defaults(cfg)
	return Validate(cfg)
}

// Validate checks the struct tags of cfg and every vault
func Validate(cfg *Config) error {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		return err
	}

	if cfg.App.SecondsPerStep != compound.SecondsPerStep {
		return core.NewError(core.ErrInvalidParams, "seconds_per_step must be %d", compound.SecondsPerStep)
	}

	for _, v := range cfg.Vaults {
		if _, err := govalidator.ValidateStruct(v); err != nil {
			return err
		}

		params, err := v.Params()
		if err != nil {
			return err
		}

		if err := compound.ValidateParams(params); err != nil {
			return err
		}
	}

	for _, b := range cfg.Bank.Balances {
		if _, err := govalidator.ValidateStruct(b); err != nil {
			return err
		}
	}

	return nil
}

func defaults(cfg *Config) {
	if cfg.App.SecondsPerStep <= 0 {
		cfg.App.SecondsPerStep = compound.SecondsPerStep
	}

	if cfg.Pool.ProtocolAccount == "" {
		cfg.Pool.ProtocolAccount = "protocol"
	}

	if cfg.Pool.Account == "" {
		cfg.Pool.Account = "pool"
	}

	if cfg.Pool.Pauser == "" {
		cfg.Pool.Pauser = "property"
	}

	if cfg.Worker.Parallel <= 0 {
		cfg.Worker.Parallel = 4
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 7777
	}
}
