package config

import "testing"

func TestConstants(t *testing.T) {
	if ReminderInterval <= 0 {
		t.Fatalf("ReminderInterval must be positive")
	}
	if UITickInterval <= 0 || UITickInterval > ReminderInterval {
		t.Fatalf("UITickInterval must be positive and not exceed ReminderInterval")
	}
	if AppName == "" {
		t.Fatalf("AppName should not be empty")
	}
	if DBFileName == "" {
		t.Fatalf("DBFileName should not be empty")
	}
	keys := []string{KeyTasks, KeyStreak, KeyAccentColor, KeyThemeMode, KeyTutorialSeen, KeyNotificationPermission}
	seen := make(map[string]bool)
	for _, k := range keys {
		if k == "" {
			t.Fatalf("empty persisted key")
		}
		if seen[k] {
			t.Fatalf("duplicate persisted key %q", k)
		}
		seen[k] = true
	}
}
