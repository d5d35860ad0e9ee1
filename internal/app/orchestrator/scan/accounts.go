package scan

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vestafn/vesta/pkg/storage"
)

// ErrUnknownAccount is returned when an index operation names an account that
// has not been seen before and carries no connection string.
var ErrUnknownAccount = errors.New("unknown storage account")

// Account is a parsed storage account connection descriptor.
type Account struct {
	Name            string
	Endpoint        string
	AccessKeyId     string
	SecretAccessKey string
}

// ParseConnectionString parses a connection string of the form
// "name=...;endpoint=...;accessKey=...;secretKey=...".
func ParseConnectionString(connectionString string) (Account, error) {
	account := Account{}
	for _, pair := range strings.Split(connectionString, ";") {
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return Account{}, fmt.Errorf("malformed connection string segment: %s", pair)
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			account.Name = value
		case "endpoint":
			account.Endpoint = value
		case "accesskey":
			account.AccessKeyId = value
		case "secretkey":
			account.SecretAccessKey = value
		default:
			return Account{}, fmt.Errorf("unknown connection string key: %s", key)
		}
	}
	if account.Name == "" || account.Endpoint == "" {
		return Account{}, errors.New("connection string misses name or endpoint")
	}
	return account, nil
}

// StorageFactory creates a storage service for an account.
type StorageFactory func(opts storage.Options) (storage.StorageService, error)

// AccountResolver resolves storage accounts from connection strings and
// remembers every account it has seen, so later operations can reference an
// account by name only.
type AccountResolver interface {
	Resolve(connectionString string, accountName string) (Account, storage.StorageService, error)
}

type accountResolver struct {
	factory  StorageFactory
	lock     sync.Mutex
	accounts map[string]Account
	services map[string]storage.StorageService
}

// NewAccountResolver creates a new AccountResolver instance.
func NewAccountResolver(factory StorageFactory) AccountResolver {
	if factory == nil {
		factory = storage.NewStorageService
	}
	return &accountResolver{
		factory:  factory,
		accounts: make(map[string]Account),
		services: make(map[string]storage.StorageService),
	}
}

// Resolve returns the account and its storage service. A connection string
// registers or refreshes the account; without one the account must have been
// seen before under the given name.
func (r *accountResolver) Resolve(connectionString string, accountName string) (Account, storage.StorageService, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if connectionString != "" {
		account, err := ParseConnectionString(connectionString)
		if err != nil {
			return Account{}, nil, fmt.Errorf("failed to parse connection string: %w", err)
		}
		service, err := r.factory(storage.Options{
			Endpoint:        account.Endpoint,
			AccessKeyId:     account.AccessKeyId,
			SecretAccessKey: account.SecretAccessKey,
		})
		if err != nil {
			return Account{}, nil, fmt.Errorf("failed to create storage service: %w", err)
		}
		r.accounts[account.Name] = account
		r.services[account.Name] = service
		return account, service, nil
	}

	account, ok := r.accounts[accountName]
	if !ok {
		return Account{}, nil, fmt.Errorf("%w: %s", ErrUnknownAccount, accountName)
	}
	return account, r.services[account.Name], nil
}
