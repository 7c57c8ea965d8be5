package sys

import (
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

func autoDetectVPNInterface(logger *zap.Logger) (string, error) {
	output, err := exec.Command("/usr/sbin/scutil", "--nwi").Output()
	if err != nil {
		return "", err
	}
	ifces, err := findIfces(output)
	if err != nil {
		return "", fmt.Errorf("failed to auto detect: %w", err)
	}
	logger.Sugar().Debugf("scutil interfaces: %#+v", ifces)
	return pickVPNIfce(ifces)
}
