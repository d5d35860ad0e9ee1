package models

import (
	"github.com/vestafn/vesta/internal/pkg/naming"
)

// Location kinds as stored and transported.
const (
	LocationKindRemote = "remote"
	LocationKindUrl    = "url"
)

// FunctionLocation describes where a function lives. It is a closed set of
// variants: blob-backed locations discovered by a scan and URL-invokable
// locations registered directly.
type FunctionLocation interface {
	// LocationId returns the stable identifier, unique within a registry snapshot.
	LocationId() string

	// ShortName returns the human-readable short name of the location.
	ShortName() string

	// AccountName returns the owning account connection reference.
	AccountName() string

	// Kind returns the location kind tag.
	Kind() string

	// sealed prevents variants outside this package.
	sealed()
}

// RemoteFunctionLocation is a function backed by a blob inside a storage
// container of a named account.
type RemoteFunctionLocation struct {
	Account       string `json:"account"`
	ContainerPath string `json:"containerPath"`
	BlobName      string `json:"blobName"`
}

func (l RemoteFunctionLocation) LocationId() string {
	return naming.RemoteLocationId(l.Account, l.ContainerPath, l.BlobName)
}

func (l RemoteFunctionLocation) ShortName() string {
	return naming.ShortBlobName(l.BlobName)
}

func (l RemoteFunctionLocation) AccountName() string {
	return l.Account
}

func (l RemoteFunctionLocation) Kind() string {
	return LocationKindRemote
}

func (l RemoteFunctionLocation) sealed() {}

// UrlFunctionLocation is a function invokable through an HTTP endpoint.
type UrlFunctionLocation struct {
	Account  string `json:"account"`
	Endpoint string `json:"endpoint"`
	Name     string `json:"name"`
}

func (l UrlFunctionLocation) LocationId() string {
	return naming.UrlLocationId(l.Endpoint)
}

func (l UrlFunctionLocation) ShortName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.Endpoint
}

func (l UrlFunctionLocation) AccountName() string {
	return l.Account
}

func (l UrlFunctionLocation) Kind() string {
	return LocationKindUrl
}

func (l UrlFunctionLocation) sealed() {}
