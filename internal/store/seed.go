package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type seedQueue struct {
	id, name, description string
}

type seedAgent struct {
	id, firstName, lastName, email string
}

var seedQueues = []seedQueue{
	{"11111111-1111-1111-1111-111111111111", "Support", "Customer support queue"},
	{"22222222-2222-2222-2222-222222222222", "Sales", "Sales inquiries"},
	{"33333333-3333-3333-3333-333333333333", "Billing", "Billing and invoices"},
	{"44444444-4444-4444-4444-444444444444", "Onboarding", "New customer onboarding"},
	{"55555555-5555-5555-5555-555555555555", "Escalations", "Escalated tickets"},
	{"66666666-6666-6666-6666-666666666666", "Returns", "Returns and exchanges"},
	{"77777777-7777-7777-7777-777777777777", "Technical", "Technical support"},
	{"88888888-8888-8888-8888-888888888888", "General", "General inquiries"},
}

var seedAgents = []seedAgent{
	{"00000000-0000-0000-0000-000000000001", "Alice", "Anderson", "alice.anderson@example.com"},
	{"00000000-0000-0000-0000-000000000002", "Bob", "Brown", "bob.brown@example.com"},
	{"00000000-0000-0000-0000-000000000003", "Carol", "Clark", "carol.clark@example.com"},
	{"00000000-0000-0000-0000-000000000004", "Dan", "Davis", "dan.davis@example.com"},
	{"00000000-0000-0000-0000-000000000005", "Eve", "Edwards", "eve.edwards@example.com"},
	{"00000000-0000-0000-0000-000000000006", "Frank", "Foster", "frank.foster@example.com"},
	{"00000000-0000-0000-0000-000000000007", "Grace", "Green", "grace.green@example.com"},
	{"00000000-0000-0000-0000-000000000008", "Hank", "Hill", "hank.hill@example.com"},
	{"00000000-0000-0000-0000-000000000009", "Ivy", "Iverson", "ivy.iverson@example.com"},
	{"00000000-0000-0000-0000-00000000000a", "Jack", "Jackson", "jack.jackson@example.com"},
	{"00000000-0000-0000-0000-00000000000b", "Kara", "King", "kara.king@example.com"},
	{"00000000-0000-0000-0000-00000000000c", "Liam", "Lewis", "liam.lewis@example.com"},
	{"00000000-0000-0000-0000-00000000000d", "Mona", "Moore", "mona.moore@example.com"},
	{"00000000-0000-0000-0000-00000000000e", "Ned", "Nelson", "ned.nelson@example.com"},
	{"00000000-0000-0000-0000-00000000000f", "Olga", "Owens", "olga.owens@example.com"},
	{"00000000-0000-0000-0000-000000000010", "Paul", "Parker", "paul.parker@example.com"},
	{"00000000-0000-0000-0000-000000000011", "Quinn", "Quincy", "quinn.quincy@example.com"},
	{"00000000-0000-0000-0000-000000000012", "Rita", "Reed", "rita.reed@example.com"},
	{"00000000-0000-0000-0000-000000000013", "Sam", "Stone", "sam.stone@example.com"},
	{"00000000-0000-0000-0000-000000000014", "Tina", "Turner", "tina.turner@example.com"},
}

// EnsureSeeded inserts demo queues, agents and a few assignments. It is
// idempotent: existing rows are left untouched.
func EnsureSeeded(ctx context.Context, db *pgxpool.Pool) error {
	for _, q := range seedQueues {
		_, err := db.Exec(ctx,
			`INSERT INTO queues (id, name, description, is_active)
			 VALUES ($1, $2, $3, true)
			 ON CONFLICT (id) DO NOTHING`,
			q.id, q.name, q.description,
		)
		if err != nil {
			return fmt.Errorf("seed queue %s: %w", q.name, err)
		}
	}

	for _, a := range seedAgents {
		_, err := db.Exec(ctx,
			`INSERT INTO agents (id, first_name, last_name, email, is_active)
			 VALUES ($1, $2, $3, $4, true)
			 ON CONFLICT (id) DO NOTHING`,
			a.id, a.firstName, a.lastName, a.email,
		)
		if err != nil {
			return fmt.Errorf("seed agent %s %s: %w", a.firstName, a.lastName, err)
		}
	}

	// Spread the first agents across the first queues, one primary each.
	for i := 0; i < 8; i++ {
		_, err := db.Exec(ctx,
			`INSERT INTO agent_queues (agent_id, queue_id, is_primary, skill_level)
			 VALUES ($1, $2, true, $3)
			 ON CONFLICT (agent_id, queue_id) DO NOTHING`,
			seedAgents[i].id, seedQueues[i].id, 1+i%5,
		)
		if err != nil {
			return fmt.Errorf("seed assignment: %w", err)
		}
	}

	return nil
}
