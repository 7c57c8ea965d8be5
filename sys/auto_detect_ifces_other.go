//go:build !darwin

package sys

import "go.uber.org/zap"

func autoDetectVPNInterface(logger *zap.Logger) (string, error) {
	return "", ErrNoGateway
}
