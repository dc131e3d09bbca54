package version

import "testing"

func stamp(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = origVersion, origCommit, origBuildTime })
	Version, GitCommit, BuildTime = version, commit, buildTime
}

func TestStampedValuesWin(t *testing.T) {
	stamp(t, "1.2.0", "abcdef123456", "2024-01-15T10:30:00Z")

	info := GetVersionInfo()
	if info.Version != "1.2.0" || info.BuildTime != "2024-01-15T10:30:00Z" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.GitCommit != "abcdef1" {
		t.Errorf("expected commit shortened to abcdef1, got %q", info.GitCommit)
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		info    Info
		want    string
		release bool
	}{
		{Info{Version: "dev"}, "dev", false},
		{Info{Version: "1.2.0", GitCommit: "abc1234"}, "1.2.0-abc1234", true},
		{Info{Version: "1.2.0", GitCommit: "abc1234", IsDirty: true}, "1.2.0-abc1234-dirty", false},
		{Info{Version: "1.2.0-dirty"}, "1.2.0-dirty", false},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if got := tt.info.IsRelease(); got != tt.release {
			t.Errorf("%s: IsRelease() = %v, want %v", tt.want, got, tt.release)
		}
	}
}
