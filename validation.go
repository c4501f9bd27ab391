package logging

import (
	"strings"
	"sync"

	smerrors "github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

func validateConfig(cfg *Config) error {
	const op smerrors.Op = "logging.validateConfig"
	if cfg == nil {
		return smerrors.New(op).Msg(errMsgNilConfig)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		return smerrors.New(op).Errorf("%s %v", errMsgConfigInvalid, err)
	}

	if _, _, ok := rotationUnit(strings.ToUpper(cfg.When)); !ok {
		return smerrors.New(op).Errorf("%s %q", errMsgInvalidWhen, cfg.When)
	}

	switch strings.ToLower(strings.ReplaceAll(cfg.Encoding, "-", "")) {
	case "utf8":
	default:
		return smerrors.New(op).Errorf("%s got %q", errMsgBadEncoding, cfg.Encoding)
	}

	for _, lvl := range []string{cfg.RootLevel, cfg.SuppressLevel} {
		if _, err := ParseLevel(lvl); err != nil {
			return smerrors.New(op).Err(err).Msg(errMsgInvalidLevel)
		}
	}
	if cfg.Console && cfg.ConsoleLevel != emptyString {
		if _, err := ParseLevel(cfg.ConsoleLevel); err != nil {
			return smerrors.New(op).Err(err).Msg(errMsgInvalidLevel)
		}
	}

	return nil
}
