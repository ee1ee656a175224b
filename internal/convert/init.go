package convert

import (
	"github.com/ATenderholt/rainbow-xform/internal/logging"
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

func init() {
	logger = logging.NewLogger().Named("convert")
}
