package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"checkmaster/internal/config"
	"checkmaster/internal/storage"
)

const schema = "CREATE TABLE IF NOT EXISTS checkmaster_kv (" +
	"`key` VARCHAR(191) NOT NULL PRIMARY KEY, " +
	"`value` LONGBLOB NOT NULL, " +
	"updated_at BIGINT NOT NULL" +
	") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"

type Storage struct {
	db *sql.DB
}

func New(cfg config.MySQL) (*Storage, error) {
	const op = "storage.mysql.New"

	db, err := sql.Open("mysql", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return open(db)
}

func open(db *sql.DB) (*Storage, error) {
	const op = "storage.mysql.open"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: create schema: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func dsn(cfg config.MySQL) string {
	c := mysql.NewConfig()
	c.User = cfg.DBUser
	c.Passwd = cfg.DBPassword
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort))
	c.DBName = cfg.DBName
	c.ParseTime = true
	return c.FormatDSN()
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.mysql.Load"

	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT `value` FROM checkmaster_kv WHERE `key` = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: key '%s': %w", op, key, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return value, nil
}

func (s *Storage) Save(ctx context.Context, key string, value []byte) error {
	const op = "storage.mysql.Save"

	stmt := "INSERT INTO checkmaster_kv (`key`, `value`, updated_at) VALUES (?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE `value` = VALUES(`value`), updated_at = VALUES(updated_at)"

	_, err := s.db.ExecContext(ctx, stmt, key, value, time.Now().UTC().UnixMilli())
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1153 {
			return fmt.Errorf("%s: document '%s' exceeds max_allowed_packet: %w", op, key, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
