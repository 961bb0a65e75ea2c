package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, "sqlite")
	}
	if cfg.Sheets.Clients != "Clients" {
		t.Errorf("Sheets.Clients = %q, want %q", cfg.Sheets.Clients, "Clients")
	}
	if cfg.Sheets.Orders != "Supplies_Orders" {
		t.Errorf("Sheets.Orders = %q, want %q", cfg.Sheets.Orders, "Supplies_Orders")
	}
	if cfg.Supplies.OrderIDFloor != "200000000000" {
		t.Errorf("Supplies.OrderIDFloor = %q, want %q", cfg.Supplies.OrderIDFloor, "200000000000")
	}
	if cfg.Lock.Mode != "lenient" {
		t.Errorf("Lock.Mode = %q, want %q", cfg.Lock.Mode, "lenient")
	}
	if cfg.Lock.Wait != 5*time.Second {
		t.Errorf("Lock.Wait = %s, want %s", cfg.Lock.Wait, 5*time.Second)
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("STORE_DRIVER", "memory")
	os.Setenv("LOCK_MODE", "strict")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("FLEA_TICK_BRANDS", "BrandA, BrandB ,BrandC")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("STORE_DRIVER")
		os.Unsetenv("LOCK_MODE")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("FLEA_TICK_BRANDS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, "memory")
	}
	if !cfg.Lock.Strict() {
		t.Error("Lock.Strict() = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	want := []string{"BrandA", "BrandB", "BrandC"}
	if len(cfg.Supplies.FleaTickBrands) != len(want) {
		t.Fatalf("FleaTickBrands = %v, want %v", cfg.Supplies.FleaTickBrands, want)
	}
	for i, b := range want {
		if cfg.Supplies.FleaTickBrands[i] != b {
			t.Errorf("FleaTickBrands[%d] = %q, want %q", i, cfg.Supplies.FleaTickBrands[i], b)
		}
	}
}

func TestLoad_InvalidDriver(t *testing.T) {
	os.Setenv("STORE_DRIVER", "oracle")
	defer os.Unsetenv("STORE_DRIVER")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for invalid STORE_DRIVER")
	}
	if !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Errorf("error %q should mention STORE_DRIVER", err)
	}
}

func TestLoad_InvalidLockMode(t *testing.T) {
	os.Setenv("LOCK_MODE", "optimistic")
	defer os.Unsetenv("LOCK_MODE")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for invalid LOCK_MODE")
	}
}

func TestLoad_InvalidOrderIDFloor(t *testing.T) {
	os.Setenv("ORDER_ID_FLOOR", "12345")
	defer os.Unsetenv("ORDER_ID_FLOOR")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for short ORDER_ID_FLOOR")
	}
	if !strings.Contains(err.Error(), "ORDER_ID_FLOOR") {
		t.Errorf("error %q should mention ORDER_ID_FLOOR", err)
	}
}

func TestLoad_DuplicateSheetNames(t *testing.T) {
	os.Setenv("SHEET_PETS", "Clients")
	defer os.Unsetenv("SHEET_PETS")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for duplicate sheet names")
	}
}

func TestLoad_RequireAPIKeyWithoutKeys(t *testing.T) {
	os.Setenv("REQUIRE_API_KEY", "true")
	defer os.Unsetenv("REQUIRE_API_KEY")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error when REQUIRE_API_KEY is set without API_KEYS")
	}
}

func TestAddr(t *testing.T) {
	c := &ServerConfig{Host: "127.0.0.1", Port: 8081}
	if got := c.Addr(); got != "127.0.0.1:8081" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:8081")
	}

	c.Host = ""
	if got := c.Addr(); got != ":8081" {
		t.Errorf("Addr() = %q, want %q", got, ":8081")
	}
}
