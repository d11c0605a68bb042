package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"syscall"
	"time"

	"chronoreel/internal/config"
)

type commandContext struct {
	addressFlag *string
	configFlag  *string
	jsonFlag    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	client *http.Client
}

func newCommandContext(addressFlag, configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		addressFlag: addressFlag,
		configFlag:  configFlag,
		jsonFlag:    jsonFlag,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// baseURL resolves the daemon address from the flag or configuration.
func (c *commandContext) baseURL() (string, error) {
	if c.addressFlag != nil && strings.TrimSpace(*c.addressFlag) != "" {
		return "http://" + strings.TrimSpace(*c.addressFlag), nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return "http://" + cfg.Paths.APIBind, nil
}

func (c *commandContext) get(path string, out any) error {
	base, err := c.baseURL()
	if err != nil {
		return err
	}
	resp, err := c.client.Get(base + path)
	if err != nil {
		return wrapDialError(err, base)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func (c *commandContext) post(path string, payload, out any) error {
	base, err := c.baseURL()
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	resp, err := c.client.Post(base+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return wrapDialError(err, base)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// download streams a GET response to w, returning the number of bytes copied.
func (c *commandContext) download(path string, w io.Writer) (int64, error) {
	base, err := c.baseURL()
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Get(base + path)
	if err != nil {
		return 0, wrapDialError(err, base)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, apiError(resp)
	}
	return io.Copy(w, resp.Body)
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return errors.New(payload.Error)
	}
	return fmt.Errorf("daemon returned status %d", resp.StatusCode)
}

func wrapDialError(err error, base string) error {
	var netErr *net.OpError
	switch {
	case errors.Is(err, syscall.ECONNREFUSED), errors.As(err, &netErr):
		return fmt.Errorf("connect to daemon at %s: %v; start it with `chronoreel daemon`", base, err)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
