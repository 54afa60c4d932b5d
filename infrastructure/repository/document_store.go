package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/boutique-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/boutique-manager-api/pkg/utils"
)

const recordsTable = "records"

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	data JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
)`

// EnsureSchema cria a tabela de documentos caso ainda não exista
func EnsureSchema(ctx context.Context, conn postgres.Queryer) error {
	if _, err := conn.ExecContext(ctx, createRecordsTable); err != nil {
		return wrapDatabaseError(err, "erro ao criar tabela de registros")
	}
	return nil
}

// documentStore guarda cada registro como JSONB em uma única tabela particionada por coleção
type documentStore struct {
	db   postgres.Queryer
	conn *postgres.Connection
	inTx bool
}

func NewDocumentStore(conn *postgres.Connection) TransactionalStore {
	return &documentStore{
		db:   conn.DB,
		conn: conn,
	}
}

func (s *documentStore) Create(ctx context.Context, collection Collection, record Record) (string, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return "", errors.Wrap(err, "erro ao gerar identificador")
	}

	document := Record{}
	for k, v := range record {
		document[k] = v
	}
	document["id"] = id

	payload, err := json.Marshal(document)
	if err != nil {
		return "", errors.Wrap(err, "erro ao serializar registro")
	}

	query, args, err := squirrel.
		Insert(recordsTable).
		Columns("collection", "id", "data").
		Values(string(collection), id, squirrel.Expr("?::jsonb", string(payload))).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", wrapDatabaseError(err, "erro ao inserir registro em %s", collection)
	}

	return id, nil
}

func (s *documentStore) Get(ctx context.Context, collection Collection, id string) (Record, error) {
	builder := squirrel.
		Select("data").
		From(recordsTable).
		Where(squirrel.Eq{"collection": string(collection), "id": id})

	// Dentro de uma transação o registro fica bloqueado até o commit
	if s.inTx {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var raw []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, wrapDatabaseError(err, "erro ao buscar registro %s/%s", collection, id)
	}

	record := Record{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, errors.Wrapf(err, "registro %s/%s corrompido", collection, id)
	}

	return record, nil
}

func (s *documentStore) ListAll(ctx context.Context, collection Collection) ([]Record, error) {
	query, args, err := squirrel.
		Select("data").
		From(recordsTable).
		Where(squirrel.Eq{"collection": string(collection)}).
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDatabaseError(err, "erro ao listar %s", collection)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Wrapf(err, "erro ao ler registro de %s", collection)
		}

		record := Record{}
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, errors.Wrapf(err, "registro corrompido em %s", collection)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapDatabaseError(err, "erro ao iterar %s", collection)
	}

	return records, nil
}

func (s *documentStore) UpdatePartial(ctx context.Context, collection Collection, id string, fields Record) error {
	changes := Record{}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		changes[k] = v
	}

	if len(changes) == 0 {
		return nil
	}

	payload, err := json.Marshal(changes)
	if err != nil {
		return errors.Wrap(err, "erro ao serializar campos")
	}

	query, args, err := squirrel.
		Update(recordsTable).
		Set("data", squirrel.Expr("data || ?::jsonb", string(payload))).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"collection": string(collection), "id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapDatabaseError(err, "erro ao atualizar registro %s/%s", collection, id)
	}

	return checkAffected(result)
}

func (s *documentStore) Delete(ctx context.Context, collection Collection, id string) error {
	query, args, err := squirrel.
		Delete(recordsTable).
		Where(squirrel.Eq{"collection": string(collection), "id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapDatabaseError(err, "erro ao remover registro %s/%s", collection, id)
	}

	return checkAffected(result)
}

func (s *documentStore) RunInTransaction(ctx context.Context, fn func(store EntityStore) error) error {
	if s.inTx || s.conn == nil {
		return fn(s)
	}

	return s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		return fn(&documentStore{db: tx, inTx: true})
	})
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "erro ao obter linhas afetadas")
	}

	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// wrapDatabaseError anexa o código do postgres quando o driver o informa
func wrapDatabaseError(err error, format string, args ...any) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return errors.Wrapf(err, format+" (code: %s)", append(args, pqErr.Code)...)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errors.Wrapf(err, format+" (code: %s)", append(args, pgErr.Code)...)
	}

	return errors.Wrapf(err, format, args...)
}
