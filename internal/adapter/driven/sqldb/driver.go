package sqldb

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/ericfisherdev/dbsession/internal/domain/model"
)

// Driver names the database/sql driver a Manager connects through.
type Driver string

const (
	// DriverMySQL targets MySQL and MariaDB servers over TCP.
	DriverMySQL Driver = "mysql"
	// DriverSQLite opens a local database file; Database holds the file path
	// and the network fields are ignored.
	DriverSQLite Driver = "sqlite"
)

// ParseDriver validates a driver name.
func ParseDriver(s string) (Driver, error) {
	switch Driver(s) {
	case DriverMySQL, DriverSQLite:
		return Driver(s), nil
	default:
		return "", fmt.Errorf("unknown driver %q (want %q or %q)", s, DriverMySQL, DriverSQLite)
	}
}

// uriPathEscaper percent-encodes the characters that would end the path part of
// a SQLite file: URI. SQLite decodes them again when it opens the file.
var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// target builds the connection string handed to sql.Open.
func (d Driver) target(cfg *model.ConnectionConfig) (string, error) {
	switch d {
	case DriverMySQL:
		if err := cfg.Validate(); err != nil {
			return "", err
		}
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		mc.DBName = cfg.Database
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN(), nil
	case DriverSQLite:
		if cfg.Database == "" {
			return "", errors.New("database is required")
		}
		return fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
			uriPathEscaper.Replace(cfg.Database),
		), nil
	default:
		return "", fmt.Errorf("unknown driver %q", d)
	}
}
