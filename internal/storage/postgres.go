// Package storage implements the persisted record store facade: the reminder
// list lives as one JSON document under a single logical key, and every
// read-modify-write cycle runs in one critical section.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Raimguhinov/remind-go/internal/reminder"
	"github.com/Raimguhinov/remind-go/pkg/logger"
	"github.com/Raimguhinov/remind-go/pkg/postgres"
	"github.com/jackc/pgx/v5"
)

const documentKey = "reminders"

type PG struct {
	client *postgres.Postgres
	logger *logger.Logger
}

func NewPG(client *postgres.Postgres, l *logger.Logger) *PG {
	return &PG{
		client: client,
		logger: l,
	}
}

// Setup creates the document table. Safe to run on every start.
func (p *PG) Setup(ctx context.Context) error {
	_, err := p.client.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS reminder_document (
			key         text PRIMARY KEY,
			doc         jsonb NOT NULL,
			modified_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("storage - Setup: %w", p.client.ToPgErr(err))
	}
	return nil
}

func (p *PG) Load(ctx context.Context) ([]reminder.Reminder, error) {
	p.logger.Debug("postgres.Load")

	var doc []byte
	err := p.client.Pool.QueryRow(ctx, `
		SELECT doc FROM reminder_document WHERE key = $1
	`, documentKey).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return []reminder.Reminder{}, nil
	}
	if err != nil {
		err = p.client.ToPgErr(err)
		p.logger.Error("postgres.Load", logger.Err(err))
		return nil, err
	}

	return decodeList(doc)
}

// Update runs mutate on the stored list while holding the document's row
// lock, so concurrent updates serialize instead of clobbering each other.
func (p *PG) Update(
	ctx context.Context,
	mutate func([]reminder.Reminder) ([]reminder.Reminder, error),
) error {
	p.logger.Debug("postgres.Update")

	tx, err := p.client.NewTx(ctx)
	if err != nil {
		return fmt.Errorf("storage - Update - client.NewTx: %w", p.client.ToPgErr(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var doc []byte
	err = tx.QueryRow(ctx, `
		SELECT doc FROM reminder_document WHERE key = $1 FOR UPDATE
	`, documentKey).Scan(&doc)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		err = p.client.ToPgErr(err)
		p.logger.Error("postgres.Update", logger.Err(err))
		return err
	}

	list, err := decodeList(doc)
	if err != nil {
		return err
	}

	list, err = mutate(list)
	if err != nil {
		return err
	}

	doc, err = json.Marshal(list)
	if err != nil {
		return fmt.Errorf("storage - Update - json.Marshal: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reminder_document (key, doc)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
			SET doc = EXCLUDED.doc, modified_at = now()
	`, documentKey, doc)
	if err != nil {
		err = p.client.ToPgErr(err)
		p.logger.Error("postgres.Update", logger.Err(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("storage - Update - tx.Commit: %w", p.client.ToPgErr(err))
	}
	return nil
}

func decodeList(doc []byte) ([]reminder.Reminder, error) {
	if len(doc) == 0 {
		return []reminder.Reminder{}, nil
	}
	var list []reminder.Reminder
	if err := json.Unmarshal(doc, &list); err != nil {
		return nil, fmt.Errorf("storage - decodeList - json.Unmarshal: %w", err)
	}
	return list, nil
}
