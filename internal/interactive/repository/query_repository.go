package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// QueryRepository executes model-generated SQL read-only against the store.
type QueryRepository interface {
	// ExecuteReadOnly runs a SELECT statement and returns rows as maps with
	// date/time values converted to ISO text, ready for JSON serialization.
	ExecuteReadOnly(ctx context.Context, sql string, maxRows int) ([]map[string]interface{}, error)
}

// NewQueryRepository creates a new QueryRepository.
func NewQueryRepository(db *gorm.DB) QueryRepository {
	return &queryRepository{
		db: db,
	}
}

type queryRepository struct {
	db *gorm.DB
}

func (r *queryRepository) ExecuteReadOnly(ctx context.Context, sql string, maxRows int) ([]map[string]interface{}, error) {
	// The statement comes from an untrusted model; only plain SELECTs are
	// ever executed.
	trimmed := strings.TrimSpace(sql)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return nil, fmt.Errorf("only SELECT statements are allowed")
	}

	rows, err := r.db.WithContext(ctx).Raw(trimmed).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		if maxRows > 0 && len(results) >= maxRows {
			break
		}

		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = serializable(values[i])
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// serializable converts driver values into JSON-friendly types.
func serializable(v interface{}) interface{} {
	switch value := v.(type) {
	case time.Time:
		return value.Format(time.RFC3339)
	case []byte:
		return string(value)
	default:
		return v
	}
}
