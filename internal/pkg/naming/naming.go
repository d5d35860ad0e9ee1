package naming

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

var (
	// Messaging topics.
	MessagingHostHeartbeatTopic = "vesta_host_heartbeat"

	// Prefix for per-host invocation request topics.
	messagingInvocationTopicPrefix = "vesta_invocation_requests"
)

// MessagingInvocationRequestTopic returns the invocation request topic of the
// host identified by the given assembly full name.
func MessagingInvocationRequestTopic(assemblyFullName string) string {
	return fmt.Sprintf("%s_%s", messagingInvocationTopicPrefix, sanitizeTopicPart(assemblyFullName))
}

// RemoteLocationId derives the stable identifier of a blob-backed function
// location from its account, container path and blob name.
func RemoteLocationId(accountName string, containerPath string, blobName string) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%s", accountName, containerPath, blobName)))
	return hex.EncodeToString(sum[:])
}

// UrlLocationId derives the stable identifier of a URL-invokable function
// location from its endpoint.
func UrlLocationId(endpoint string) string {
	sum := sha1.Sum([]byte(endpoint))
	return hex.EncodeToString(sum[:])
}

// AssemblyNameForBlob derives the assembly identity of a blob-backed
// function from its blob key, by stripping the path and the file extension.
func AssemblyNameForBlob(blobName string) string {
	name := ShortBlobName(blobName)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}

// ShortBlobName returns the last path segment of a blob key.
func ShortBlobName(blobName string) string {
	parts := strings.Split(strings.TrimSuffix(blobName, "/"), "/")
	return parts[len(parts)-1]
}

// CacheHeartbeatKeyName returns the cache key holding the heartbeat lease of
// the host identified by the given assembly full name.
func CacheHeartbeatKeyName(assemblyFullName string) string {
	return fmt.Sprintf("heartbeat:%s", assemblyFullName)
}

// sanitizeTopicPart replaces characters that are not allowed in kafka topic names.
func sanitizeTopicPart(part string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, part)
}
