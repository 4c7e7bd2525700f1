package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/dining-hall/internal/model"
)

// MongoPaymentRepo keeps payments in the `payments` collection.
type MongoPaymentRepo struct{ coll *mongo.Collection }

func NewMongoPaymentRepo(db *mongo.Database) *MongoPaymentRepo {
	return &MongoPaymentRepo{coll: db.Collection(PaymentsCollection)}
}

func (r *MongoPaymentRepo) Create(ctx context.Context, p *model.Payment) (model.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("insert payment: %w", err)
	}
	return insertResult(res), nil
}

// ListByEmail returns the payments of email.  Payment keeps its id as a
// string, so the document _id arrives among the unnamed fields and is moved
// over here.
func (r *MongoPaymentRepo) ListByEmail(ctx context.Context, email string) ([]model.Payment, error) {
	out, err := findAll[model.Payment](ctx, r.coll, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	for i := range out {
		p := &out[i]
		if oid, ok := p.Extra["_id"].(primitive.ObjectID); ok {
			p.ID = oid.Hex()
		}
		delete(p.Extra, "_id")
		if len(p.Extra) == 0 {
			p.Extra = nil
		}
	}
	return out, nil
}

// SQLPaymentRepo keeps payments in a MySQL ledger table.  Rows are only
// ever inserted.
type SQLPaymentRepo struct{ DB *sql.DB }

func NewSQLPaymentRepo(db *sql.DB) *SQLPaymentRepo { return &SQLPaymentRepo{DB: db} }

// LedgerSchema creates the ledger table when it does not exist.
const LedgerSchema = `CREATE TABLE IF NOT EXISTS payments (
  id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
  email          VARCHAR(320)  NOT NULL,
  name           VARCHAR(255)  NOT NULL DEFAULT '',
  price          DECIMAL(12,2) NOT NULL,
  transaction_id VARCHAR(255)  NOT NULL,
  package        VARCHAR(64)   NOT NULL DEFAULT '',
  status         VARCHAR(64)   NOT NULL DEFAULT '',
  paid_at        DATETIME(3)   NOT NULL,
  metadata       JSON          NULL,
  extra          JSON          NULL,
  created_at     DATETIME(3)   NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
  KEY idx_payments_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

func (r *SQLPaymentRepo) Create(ctx context.Context, p *model.Payment) (model.InsertResult, error) {
	meta, err := encodeJSONColumn(p.Metadata)
	if err != nil {
		return model.InsertResult{}, err
	}
	extra, err := encodeJSONColumn(p.Extra)
	if err != nil {
		return model.InsertResult{}, err
	}
	paidAt := p.Date
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO payments (email,name,price,transaction_id,package,status,paid_at,metadata,extra) VALUES (?,?,?,?,?,?,?,?,?)",
		p.Email, p.Name, p.Price, p.TransactionID, p.Package, p.Status, paidAt.UTC(), meta, extra)
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("insert payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.InsertResult{}, err
	}
	return model.InsertResult{Acknowledged: true, InsertedID: strconv.FormatInt(id, 10)}, nil
}

func (r *SQLPaymentRepo) ListByEmail(ctx context.Context, email string) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,email,name,price,transaction_id,package,status,paid_at,metadata,extra FROM payments WHERE email=? ORDER BY id",
		email)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	out := make([]model.Payment, 0)
	for rows.Next() {
		var (
			p     model.Payment
			id    uint64
			meta  []byte
			extra []byte
		)
		if err := rows.Scan(&id, &p.Email, &p.Name, &p.Price, &p.TransactionID, &p.Package, &p.Status, &p.Date, &meta, &extra); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.ID = strconv.FormatUint(id, 10)
		if p.Metadata, err = decodeJSONColumn(meta); err != nil {
			return nil, err
		}
		if p.Extra, err = decodeJSONColumn(extra); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// encodeJSONColumn returns nil for an empty map so the column stays NULL.
func encodeJSONColumn(m map[string]any) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode payment column: %w", err)
	}
	return b, nil
}

func decodeJSONColumn(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode payment column: %w", err)
	}
	return m, nil
}
