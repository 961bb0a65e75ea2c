package core

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pantryworks/trackhub/internal/logging"
	"github.com/pantryworks/trackhub/internal/normalize"
	"github.com/pantryworks/trackhub/internal/schema"
	"github.com/pantryworks/trackhub/internal/tabular"
)

var petIDPattern = regexp.MustCompile(`^P-(\d{8})-(\d{3})$`)

// petRowMatches reports whether a pet row belongs to the requested client.
// The stable ClientID wins; the legacy row-position link is honored only
// for rows written before the stable key existed (blank ClientID cell).
func petRowMatches(ix tabular.Index, row []string, clientID, clientRowID string) bool {
	rowClientID := strings.TrimSpace(ix.Value(row, schema.PetClientID))
	if clientID != "" && rowClientID != "" {
		return strings.EqualFold(rowClientID, clientID)
	}
	if rowClientID == "" && clientRowID != "" {
		return strings.TrimSpace(ix.Value(row, schema.PetClientRowID)) == clientRowID
	}
	return false
}

// petFromRow materializes a pet row for listing.
func petFromRow(ix tabular.Index, row []string) Pet {
	return Pet{
		PetID:     ix.Value(row, schema.PetID),
		Name:      ix.Value(row, schema.PetName),
		Species:   ix.Value(row, schema.Species),
		Breed:     ix.Value(row, schema.Breed),
		Sex:       ix.Value(row, schema.Sex),
		AgeYears:  ix.Value(row, schema.AgeYears),
		WeightLb:  ix.Value(row, schema.WeightLb),
		Fixed:     normalize.Bool(ix.Value(row, schema.SpayNeuter)),
		Color:     ix.Value(row, schema.Color),
		Allergies: ix.Value(row, schema.Allergies),
		Notes:     ix.Value(row, schema.PetNotes),
		Deceased:  normalize.Bool(ix.Value(row, schema.Deceased)),
		Rehomed:   normalize.Bool(ix.Value(row, schema.Rehomed)),
	}
}

// ListActivePets returns the client's pets excluding Deceased and Re-homed
// rows, sorted by PetID ascending. Flagged rows stay in the table; they are
// only filtered from the listing.
func (s *Service) ListActivePets(ctx context.Context, req PetList) ([]Pet, error) {
	clientID := strings.TrimSpace(req.ClientID)
	clientRowID := strings.TrimSpace(req.ClientRowID)
	if clientID == "" && clientRowID == "" {
		return nil, validationErr("ClientRowId required")
	}

	tbl, err := s.table(ctx, s.cfg.Sheets.Pets)
	if err != nil {
		return nil, err
	}
	_, ix, err := tabular.EnsureColumns(ctx, tbl, schema.PetColumns)
	if err != nil {
		return nil, err
	}
	rows, err := tbl.Rows(ctx)
	if err != nil {
		return nil, err
	}

	pets := []Pet{}
	for _, row := range rows {
		if !petRowMatches(ix, row, clientID, clientRowID) {
			continue
		}
		p := petFromRow(ix, row)
		if p.Deceased || p.Rehomed {
			continue
		}
		pets = append(pets, p)
	}

	sort.SliceStable(pets, func(i, j int) bool { return pets[i].PetID < pets[j].PetID })
	return pets, nil
}

// SavePets upserts a batch of pets for one client, keyed by PetID. Pets
// without a PetID get a generated P-YYYYMMDD-NNN (table-scoped sequence)
// and are appended; existing rows not mentioned in the batch are left
// untouched, never deleted.
func (s *Service) SavePets(ctx context.Context, req PetBatch) (PetBatchResult, error) {
	clientID := strings.TrimSpace(req.ClientID)
	clientRowID := strings.TrimSpace(req.ClientRowID)
	if clientID == "" && clientRowID == "" {
		return PetBatchResult{}, validationErr("ClientRowId required")
	}

	tbl, err := s.table(ctx, s.cfg.Sheets.Pets)
	if err != nil {
		return PetBatchResult{}, err
	}
	header, ix, err := tabular.EnsureColumns(ctx, tbl, schema.PetColumns)
	if err != nil {
		return PetBatchResult{}, err
	}

	var result PetBatchResult
	err = s.withLock(ctx, func() error {
		rows, err := tbl.Rows(ctx)
		if err != nil {
			return err
		}

		// Existing rows for this client, keyed by PetID.
		existing := map[string]int{}
		for i, row := range rows {
			if !petRowMatches(ix, row, clientID, clientRowID) {
				continue
			}
			if pid := strings.TrimSpace(ix.Value(row, schema.PetID)); pid != "" {
				existing[pid] = i + 1
			}
		}

		now := s.now()
		actor := ActorFromContext(ctx)
		nextRow := len(rows) + 1

		for _, p := range req.Pets {
			petID := strings.TrimSpace(p.PetID)
			write := petWriteSet(p, clientID, clientRowID, now, actor)

			if rowNum, ok := existing[petID]; petID != "" && ok {
				row, err := tbl.Row(ctx, rowNum, len(header))
				if err != nil {
					return err
				}
				write[schema.PetID] = petID
				applyWrite(row, ix, write)
				if err := tbl.WriteRow(ctx, rowNum, row); err != nil {
					return err
				}
				result.Updates++
				continue
			}

			if petID == "" {
				petID = generatePetID(ix, rows, now)
			}
			write[schema.PetID] = petID
			write[schema.PetCreatedAt] = normalize.Timestamp(now)
			write[schema.PetCreatedBy] = actor

			row := make([]string, len(header))
			applyWrite(row, ix, write)
			if err := tbl.WriteRow(ctx, nextRow, row); err != nil {
				return err
			}
			// Keep the in-memory scan current so the next generated ID in
			// this batch does not collide.
			rows = append(rows, row)
			existing[petID] = nextRow
			nextRow++
			result.Inserts++
		}
		return nil
	})
	if err != nil {
		return PetBatchResult{}, err
	}

	s.recordAudit(ctx, "pets_saved", clientID,
		fmt.Sprintf("%d updates, %d inserts", result.Updates, result.Inserts))
	logging.FromContext(ctx).Info("pets saved",
		slog.String("client_id", clientID),
		slog.String("client_row", clientRowID),
		slog.Int("updates", result.Updates),
		slog.Int("inserts", result.Inserts))
	return result, nil
}

// petWriteSet builds the header-keyed values for one pet row.
func petWriteSet(p Pet, clientID, clientRowID string, now time.Time, actor string) Record {
	return Record{
		schema.PetClientID:    clientID,
		schema.PetClientRowID: clientRowID,
		schema.PetName:        p.Name,
		schema.Species:        p.Species,
		schema.Breed:          p.Breed,
		schema.Sex:            p.Sex,
		schema.AgeYears:       strings.TrimSpace(p.AgeYears),
		schema.WeightLb:       strings.TrimSpace(p.WeightLb),
		schema.SpayNeuter:     normalize.FormatBool(p.Fixed),
		schema.Color:          p.Color,
		schema.Allergies:      p.Allergies,
		schema.PetNotes:       p.Notes,
		schema.Deceased:       normalize.FormatBool(p.Deceased),
		schema.Rehomed:        normalize.FormatBool(p.Rehomed),
		schema.PetUpdatedAt:   normalize.Timestamp(now),
		schema.PetUpdatedBy:   actor,
	}
}

// generatePetID returns the next P-YYYYMMDD-NNN for the given day. The
// sequence is scoped to the whole table, not per client.
func generatePetID(ix tabular.Index, rows [][]string, now time.Time) string {
	dayKey := now.Format("20060102")
	seq := 1
	for _, row := range rows {
		m := petIDPattern.FindStringSubmatch(strings.TrimSpace(ix.Value(row, schema.PetID)))
		if m == nil || m[1] != dayKey {
			continue
		}
		if n, err := strconv.Atoi(m[2]); err == nil && n >= seq {
			seq = n + 1
		}
	}
	return fmt.Sprintf("P-%s-%03d", dayKey, seq)
}
