package config

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

var httpClient = &http.Client{Timeout: time.Minute}

// Read returns the document at p, a filesystem path or an https URL. It's
// used for both config files and catalogs.
func Read(logger *zap.Logger, p string) (data []byte, err error) {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "https://") || strings.HasPrefix(p, "http://") {
		logger.Sugar().Debugf("reading %s", p)
		resp, err := httpClient.Get(p)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetching %s: %s", p, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	logger.Sugar().Debugf("reading filesystem path %s", p)
	return os.ReadFile(p)
}
