package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gophshop/internal/client/models"
	"github.com/dmitrijs2005/gophshop/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophshop/internal/dbx"
)

const (
	keyCredential = "credential"
	keyIdentity   = "identity"
)

// Record is what survives a restart: the credential and the identity it
// belonged to when last verified.
type Record struct {
	Credential string
	Identity   models.Identity
}

// Store persists a single Record. Load reports ok=false when nothing (or
// only part of a record) is stored.
type Store interface {
	Load(ctx context.Context) (rec Record, ok bool, err error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}

// SQLiteStore keeps the record in the metadata table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (Record, bool, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	cred, err := repo.Get(ctx, keyCredential)
	if err != nil {
		return Record{}, false, fmt.Errorf("load credential: %w", err)
	}
	raw, err := repo.Get(ctx, keyIdentity)
	if err != nil {
		return Record{}, false, fmt.Errorf("load identity: %w", err)
	}
	if len(cred) == 0 || len(raw) == 0 {
		return Record{}, false, nil
	}

	var id models.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return Record{}, false, fmt.Errorf("decode identity: %w", err)
	}
	return Record{Credential: string(cred), Identity: id}, true, nil
}

// Save writes both keys in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	raw, err := json.Marshal(rec.Identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyCredential, []byte(rec.Credential)); err != nil {
			return fmt.Errorf("save credential: %w", err)
		}
		if err := repo.Set(ctx, keyIdentity, raw); err != nil {
			return fmt.Errorf("save identity: %w", err)
		}
		return nil
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, keyCredential, keyIdentity)
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
