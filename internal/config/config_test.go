package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ACCESS_SECRET", strings.Repeat("a", 32))
	t.Setenv("BLOB_DRIVER", "filesystem")
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.BannerMaxUpload != 5<<20 {
		t.Errorf("BannerMaxUpload = %d, want %d", cfg.BannerMaxUpload, 5<<20)
	}
	if cfg.HomeImageMaxUpload != 10<<20 {
		t.Errorf("HomeImageMaxUpload = %d, want %d", cfg.HomeImageMaxUpload, 10<<20)
	}
	if cfg.Blob.PublicURL != "/uploads/%s" || cfg.Port != "5001" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"short secret", map[string]string{"ACCESS_SECRET": "short"}, "ACCESS_SECRET"},
		{"s3 without bucket", map[string]string{"BLOB_DRIVER": "s3"}, "BLOB_BUCKET"},
		{"unknown driver", map[string]string{"BLOB_DRIVER": "ftp"}, "BLOB_DRIVER"},
		{"bad size", map[string]string{"BANNER_MAX_UPLOAD": "lots"}, "BANNER_MAX_UPLOAD"},
		{"zero size", map[string]string{"HOME_IMAGE_MAX_UPLOAD": "0"}, "HOME_IMAGE_MAX_UPLOAD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			setRequired(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}

func TestGetEnvSize(t *testing.T) {
	cases := map[string]int64{
		"512KiB": 512 << 10,
		"5MB":    5 << 20,
		"2m":     2 << 20,
		"1024":   1024,
	}
	for raw, want := range cases {
		t.Setenv("TEST_SIZE", raw)
		got, err := getEnvSize("TEST_SIZE", "1MB")
		if err != nil || got != want {
			t.Errorf("getEnvSize(%q) = %d, %v; want %d", raw, got, err, want)
		}
	}
}
