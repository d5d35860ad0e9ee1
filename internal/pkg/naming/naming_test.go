package naming

import (
	"strings"
	"testing"
)

func TestRemoteLocationIdIsStable(t *testing.T) {
	a := RemoteLocationId("prod", "functions/prod", "alpha.dll")
	b := RemoteLocationId("prod", "functions/prod", "alpha.dll")
	if a != b {
		t.Error("expected identical inputs to derive identical ids")
	}
	if len(a) != 40 {
		t.Errorf("expected a 40 character hex id, got %d characters", len(a))
	}

	c := RemoteLocationId("prod", "functions/prod", "beta.dll")
	if a == c {
		t.Error("expected different blobs to derive different ids")
	}
	d := RemoteLocationId("staging", "functions/prod", "alpha.dll")
	if a == d {
		t.Error("expected different accounts to derive different ids")
	}
}

func TestUrlLocationId(t *testing.T) {
	a := UrlLocationId("https://funcs.example.com/report")
	b := UrlLocationId("https://funcs.example.com/report")
	if a != b {
		t.Error("expected identical endpoints to derive identical ids")
	}
	if a == UrlLocationId("https://funcs.example.com/other") {
		t.Error("expected different endpoints to derive different ids")
	}
}

func TestAssemblyNameForBlob(t *testing.T) {
	cases := map[string]string{
		"prod/Reports.Generator.dll": "Reports.Generator",
		"alpha.dll":                  "alpha",
		"nested/path/to/beta.zip":    "beta",
		"noextension":                "noextension",
	}
	for blobName, expected := range cases {
		if got := AssemblyNameForBlob(blobName); got != expected {
			t.Errorf("AssemblyNameForBlob(%q) = %q, expected %q", blobName, got, expected)
		}
	}
}

func TestShortBlobName(t *testing.T) {
	if got := ShortBlobName("prod/nested/alpha.dll"); got != "alpha.dll" {
		t.Errorf("unexpected short name: %s", got)
	}
	if got := ShortBlobName("alpha.dll"); got != "alpha.dll" {
		t.Errorf("unexpected short name: %s", got)
	}
}

func TestMessagingInvocationRequestTopic(t *testing.T) {
	topic := MessagingInvocationRequestTopic("Reports.Generator")
	if !strings.HasPrefix(topic, "vesta_invocation_requests_") {
		t.Errorf("unexpected topic prefix: %s", topic)
	}
	if !strings.HasSuffix(topic, "Reports.Generator") {
		t.Errorf("unexpected topic suffix: %s", topic)
	}

	sanitized := MessagingInvocationRequestTopic("My Funcs/v2")
	for _, r := range sanitized {
		valid := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '.' || r == '_' || r == '-'
		if !valid {
			t.Errorf("topic contains invalid character %q: %s", r, sanitized)
		}
	}
}

func TestCacheHeartbeatKeyName(t *testing.T) {
	if got := CacheHeartbeatKeyName("Funcs.Alpha"); got != "heartbeat:Funcs.Alpha" {
		t.Errorf("unexpected cache key: %s", got)
	}
}
