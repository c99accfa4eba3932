// config_validation.go - Startup configuration validation for csv-drop.
//
// Validates environment variables at startup to fail fast with clear error
// messages rather than runtime failures.
package server

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// ConfigValidationError represents a configuration validation error.
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// ConfigValidator collects validation errors.
type ConfigValidator struct {
	errors []ConfigValidationError
}

func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

func (v *ConfigValidator) AddError(field, message string) {
	v.errors = append(v.errors, ConfigValidationError{Field: field, Message: message})
}

func (v *ConfigValidator) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *ConfigValidator) Errors() []ConfigValidationError {
	return v.errors
}

// ErrorString returns a formatted string of all errors.
func (v *ConfigValidator) ErrorString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Configuration validation failed with %d error(s):\n", len(v.errors))
	for i, err := range v.errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidateRequired validates that a required environment variable is set.
func (v *ConfigValidator) ValidateRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		v.AddError(key, "required environment variable not set")
	}
	return value
}

// ValidateURL validates that a value is an http(s) URL.
func (v *ConfigValidator) ValidateURL(key, value string) {
	if value == "" {
		return
	}

	parsed, err := url.Parse(value)
	if err != nil {
		v.AddError(key, fmt.Sprintf("invalid URL format: %v", err))
		return
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		v.AddError(key, "URL must use http or https scheme")
		return
	}
	if parsed.Host == "" {
		v.AddError(key, "URL must include a host")
	}
}

// ValidateOrigins checks a comma separated list of browser origins.
func (v *ConfigValidator) ValidateOrigins(key, value string) {
	if value == "" {
		return
	}
	for _, o := range strings.Split(value, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			v.AddError(key, "empty origin in list")
			continue
		}
		if o == "*" {
			v.AddError(key, "wildcard origin cannot be combined with credentials")
			continue
		}
		v.ValidateURL(key, o)
		if u, err := url.Parse(o); err == nil && u.Path != "" && u.Path != "/" {
			v.AddError(key, fmt.Sprintf("origin must not contain a path: %s", o))
		}
	}
}

// ValidatePort validates ":port" or "host:port".
func (v *ConfigValidator) ValidatePort(key, value string) {
	if value == "" {
		return
	}

	portStr := value
	if i := strings.LastIndex(value, ":"); i >= 0 {
		portStr = value[i+1:]
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		v.AddError(key, "port must be a number")
		return
	}
	if port < 1 || port > 65535 {
		v.AddError(key, "port must be between 1 and 65535")
	}
}

// ValidateEnum validates that a value is one of allowed options.
func (v *ConfigValidator) ValidateEnum(key, value string, allowed []string) {
	for _, opt := range allowed {
		if value == opt {
			return
		}
	}
	v.AddError(key, fmt.Sprintf("must be one of: %s (got: %s)", strings.Join(allowed, ", "), value))
}

// ValidateNonNegativeInt validates an integer >= 0.
func (v *ConfigValidator) ValidateNonNegativeInt(key, value string) {
	if value == "" {
		return
	}

	num, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		v.AddError(key, "must be a valid integer")
		return
	}
	if num < 0 {
		v.AddError(key, "must not be negative")
	}
}

// ValidateBool validates a value strconv.ParseBool accepts.
func (v *ConfigValidator) ValidateBool(key, value string) {
	if value == "" {
		return
	}
	if _, err := strconv.ParseBool(value); err != nil {
		v.AddError(key, "must be true or false")
	}
}

// ValidateAllConfiguration performs validation of all CSVDROP_* settings.
func ValidateAllConfiguration() error {
	v := NewConfigValidator()

	v.ValidatePort("CSVDROP_ADDR", os.Getenv("CSVDROP_ADDR"))
	v.ValidateOrigins("CSVDROP_ALLOWED_ORIGINS", os.Getenv("CSVDROP_ALLOWED_ORIGINS"))
	v.ValidateNonNegativeInt("CSVDROP_MAX_UPLOAD_BYTES", os.Getenv("CSVDROP_MAX_UPLOAD_BYTES"))
	v.ValidateBool("CSVDROP_CONFINE_FILENAMES", os.Getenv("CSVDROP_CONFINE_FILENAMES"))

	storageKind := os.Getenv("CSVDROP_STORAGE")
	v.ValidateEnum("CSVDROP_STORAGE", storageKind, []string{"", "dir", "minio"})
	if storageKind == "minio" {
		endpoint := v.ValidateRequired("CSVDROP_S3_ENDPOINT")
		if strings.Contains(endpoint, "://") {
			v.ValidateURL("CSVDROP_S3_ENDPOINT", endpoint)
		}
		v.ValidateRequired("CSVDROP_S3_ACCESS_KEY")
		v.ValidateRequired("CSVDROP_S3_SECRET_KEY")
		v.ValidateRequired("CSVDROP_BUCKET")
	}

	v.ValidateEnum("CSVDROP_LOG_FORMAT", os.Getenv("CSVDROP_LOG_FORMAT"), []string{"", "json", "text"})
	v.ValidateEnum("CSVDROP_LOG_LEVEL", os.Getenv("CSVDROP_LOG_LEVEL"), []string{"", "debug", "info", "warn", "error"})
	v.ValidateEnum("CSVDROP_ENV", os.Getenv("CSVDROP_ENV"), []string{"", "development", "production", "staging"})

	if v.HasErrors() {
		return fmt.Errorf("%s", v.ErrorString())
	}
	return nil
}

// WarnOnOptionalMissingConfig logs warnings for risky or defaulted settings.
func WarnOnOptionalMissingConfig() {
	var warnings []string

	if os.Getenv("CSVDROP_STORAGE") != "minio" {
		if on, _ := strconv.ParseBool(os.Getenv("CSVDROP_CONFINE_FILENAMES")); !on {
			warnings = append(warnings, "CSVDROP_CONFINE_FILENAMES not set - filenames containing ../ are written outside the upload directory")
		}
	}

	if os.Getenv("CSVDROP_ALLOWED_ORIGINS") == "" {
		warnings = append(warnings, "CSVDROP_ALLOWED_ORIGINS not set - allowing "+DefaultAllowedOrigin)
	}

	if os.Getenv("CSVDROP_MAX_UPLOAD_BYTES") == "" {
		warnings = append(warnings, "CSVDROP_MAX_UPLOAD_BYTES not set - upload size is unlimited")
	}

	if len(warnings) > 0 {
		Warn("configuration warnings", map[string]any{
			"count":    len(warnings),
			"warnings": warnings,
		})
	}
}
