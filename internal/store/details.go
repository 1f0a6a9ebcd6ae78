package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docsift/docsift/internal/extract"
)

func insertCapitalCall(ctx context.Context, tx *sql.Tx, documentID string, cc *extract.CapitalCallDetails, now time.Time) error {
	var wire interface{}
	if cc.WireInstructions != nil {
		b, err := json.Marshal(cc.WireInstructions)
		if err != nil {
			return fmt.Errorf("encoding wire instructions: %w", err)
		}
		wire = string(b)
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO capital_call_details (id, document_id, fund_name, lp_name, call_date, due_date,
		                                   call_amount, call_percentage, lp_commitment, remaining_commitment,
		                                   fund_size, payment_instructions, wire_instructions, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), documentID, cc.FundName, cc.LPName, cc.CallDate, cc.DueDate,
		cc.CallAmount, cc.CallPercentage, cc.LPCommitment, cc.RemainingCommitment,
		cc.FundSize, cc.PaymentInstructions, wire, cc.Confidence, now,
	)
	if err != nil {
		return fmt.Errorf("inserting capital call details: %w", err)
	}
	return nil
}

func insertDistribution(ctx context.Context, tx *sql.Tx, documentID string, dd *extract.DistributionDetails, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO distribution_details (id, document_id, fund_name, lp_name, distribution_date, record_date,
		                                   distribution_amount, lp_distribution_amount, distribution_per_unit,
		                                   fund_nav, total_distributions, lp_units, irr, multiple,
		                                   payment_method, payment_instructions, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), documentID, dd.FundName, dd.LPName, dd.DistributionDate, dd.RecordDate,
		dd.DistributionAmount, dd.LPDistributionAmount, dd.DistributionPerUnit,
		dd.FundNAV, dd.TotalDistributions, dd.LPUnits, dd.IRR, dd.Multiple,
		dd.PaymentMethod, dd.PaymentInstructions, dd.Confidence, now,
	)
	if err != nil {
		return fmt.Errorf("inserting distribution details: %w", err)
	}
	return nil
}

// GetCapitalCall retrieves the capital call detail row for a document.
// Returns (nil, nil) when the document has none.
func (s *SQLiteStore) GetCapitalCall(ctx context.Context, documentID string) (*CapitalCallDetail, error) {
	d := &CapitalCallDetail{}
	var wire sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, document_id, fund_name, lp_name, call_date, due_date, call_amount, call_percentage,
		        lp_commitment, remaining_commitment, fund_size, payment_instructions, wire_instructions,
		        confidence, created_at
		 FROM capital_call_details WHERE document_id = ?`, documentID,
	).Scan(&d.ID, &d.DocumentID, &d.FundName, &d.LPName, &d.CallDate, &d.DueDate,
		&d.CallAmount, &d.CallPercentage, &d.LPCommitment, &d.RemainingCommitment,
		&d.FundSize, &d.PaymentInstructions, &wire, &d.Confidence, &d.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting capital call details for %s: %w", documentID, err)
	}
	if wire.Valid {
		d.WireInstructions = json.RawMessage(wire.String)
	}
	return d, nil
}

// GetDistribution retrieves the distribution detail row for a document.
// Returns (nil, nil) when the document has none.
func (s *SQLiteStore) GetDistribution(ctx context.Context, documentID string) (*DistributionDetail, error) {
	d := &DistributionDetail{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, document_id, fund_name, lp_name, distribution_date, record_date, distribution_amount,
		        lp_distribution_amount, distribution_per_unit, fund_nav, total_distributions, lp_units,
		        irr, multiple, payment_method, payment_instructions, confidence, created_at
		 FROM distribution_details WHERE document_id = ?`, documentID,
	).Scan(&d.ID, &d.DocumentID, &d.FundName, &d.LPName, &d.DistributionDate, &d.RecordDate,
		&d.DistributionAmount, &d.LPDistributionAmount, &d.DistributionPerUnit,
		&d.FundNAV, &d.TotalDistributions, &d.LPUnits, &d.IRR, &d.Multiple,
		&d.PaymentMethod, &d.PaymentInstructions, &d.Confidence, &d.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting distribution details for %s: %w", documentID, err)
	}
	return d, nil
}
