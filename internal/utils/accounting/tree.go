package accounting

import (
	"fmt"

	"github.com/LattanaDev/laobooks_backend/internal/apperrors"
	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
)

// ErrCycle is returned when the chart of accounts contains a parent loop.
var ErrCycle = fmt.Errorf("%w: chart of accounts contains a cycle", apperrors.ErrInvariant)

// BuildChildIndex maps each parent account id to the ids of its direct
// children. Accounts without a parent do not appear as keys unless they have
// children of their own.
func BuildChildIndex(accounts []domain.Account) map[string][]string {
	index := make(map[string][]string)
	for _, acc := range accounts {
		if acc.ParentAccountID != nil && *acc.ParentAccountID != "" {
			index[*acc.ParentAccountID] = append(index[*acc.ParentAccountID], acc.AccountID)
		}
	}
	return index
}

// IsLeaf reports whether the account has no children in the index.
func IsLeaf(accountID string, index map[string][]string) bool {
	return len(index[accountID]) == 0
}

// RollUp aggregates opening and movement amounts bottom-up: after visiting
// all of a node's children, each child's openingDr/openingCr and
// movementDr/movementCr are added into the parent. Every node is visited at
// most once; a malformed parent chain that loops is rejected with ErrCycle
// rather than traversed.
func RollUp(rows map[string]*Row, index map[string][]string) error {
	visited := make(map[string]bool, len(rows))

	var visit func(id string, path map[string]bool) error
	visit = func(id string, path map[string]bool) error {
		if path[id] {
			return ErrCycle
		}
		if visited[id] {
			return nil
		}
		path[id] = true
		row := rows[id]
		for _, childID := range index[id] {
			child, ok := rows[childID]
			if !ok {
				continue
			}
			if err := visit(childID, path); err != nil {
				return err
			}
			if row != nil {
				row.OpeningDr = row.OpeningDr.Add(child.OpeningDr)
				row.OpeningCr = row.OpeningCr.Add(child.OpeningCr)
				row.MovementDr = row.MovementDr.Add(child.MovementDr)
				row.MovementCr = row.MovementCr.Add(child.MovementCr)
			}
		}
		delete(path, id)
		visited[id] = true
		return nil
	}

	for id, row := range rows {
		if row.ParentAccountID == nil || *row.ParentAccountID == "" {
			if err := visit(id, map[string]bool{}); err != nil {
				return err
			}
			continue
		}
		if _, parentKnown := rows[*row.ParentAccountID]; !parentKnown {
			// Orphaned subtree; treat its top as a root so it still rolls up.
			if err := visit(id, map[string]bool{}); err != nil {
				return err
			}
		}
	}

	// Nodes never reached from any root can only sit on a parent loop.
	if len(visited) != len(rows) {
		return ErrCycle
	}
	return nil
}
