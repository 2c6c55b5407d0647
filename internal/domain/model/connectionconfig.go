package model

import (
	"errors"
	"fmt"
)

// ConnectionConfig holds the parameters needed to reach the database. Password
// carries ciphertext while on disk and plaintext once the loader has decrypted it.
type ConnectionConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Validate reports whether the config describes a usable network target.
// Password may be empty; MySQL and MariaDB accept password-less accounts.
func (c *ConnectionConfig) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("host is required"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 1-65535", c.Port))
	}
	if c.User == "" {
		errs = append(errs, errors.New("user is required"))
	}
	if c.Database == "" {
		errs = append(errs, errors.New("database is required"))
	}
	return errors.Join(errs...)
}

// Redacted returns a copy safe for logging, with the password masked.
func (c ConnectionConfig) Redacted() ConnectionConfig {
	if c.Password != "" {
		c.Password = "***"
	}
	return c
}
