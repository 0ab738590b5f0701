package bwiretest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [bwireapp.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [bwireapp.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - BW_ADDR: "127.0.0.1:<port>"
//   - BW_SERVICE_NAME: "test"
//   - BW_HEALTH_PATH: "/health"
//   - BW_OTEL_EXPORTER: "none"
//   - BW_READ_TIMEOUT: "5s"
//   - BW_WRITE_TIMEOUT: "5s"
//
// Use the returned [Env] to override individual values:
//
//	bwiretest.SetBaseEnv(t, 18085).ServiceName("orders").StaticDir(t.TempDir())
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("BW_ADDR", "127.0.0.1:"+strconv.Itoa(port))
	t.Setenv("BW_SERVICE_NAME", "test")
	t.Setenv("BW_HEALTH_PATH", "/health")
	t.Setenv("BW_OTEL_EXPORTER", "none")
	t.Setenv("BW_READ_TIMEOUT", "5s")
	t.Setenv("BW_WRITE_TIMEOUT", "5s")
	return &Env{t: t}
}

// ServiceName overrides BW_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BW_SERVICE_NAME", name)
	return e
}

// HealthPath overrides BW_HEALTH_PATH.
func (e *Env) HealthPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("BW_HEALTH_PATH", path)
	return e
}

// StaticDir sets BW_STATIC_DIR.
func (e *Env) StaticDir(dir string) *Env {
	e.t.Helper()
	e.t.Setenv("BW_STATIC_DIR", dir)
	return e
}

// MaxBodyBytes overrides BW_MAX_BODY_BYTES.
func (e *Env) MaxBodyBytes(n int64) *Env {
	e.t.Helper()
	e.t.Setenv("BW_MAX_BODY_BYTES", strconv.FormatInt(n, 10))
	return e
}

// ParseCookies overrides BW_PARSE_COOKIES.
func (e *Env) ParseCookies(v bool) *Env {
	e.t.Helper()
	e.t.Setenv("BW_PARSE_COOKIES", strconv.FormatBool(v))
	return e
}
