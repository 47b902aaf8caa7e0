package summary

import "testing"

func TestComputeEmpty(t *testing.T) {
	s, unknown := Compute(nil)
	if s != Zero() {
		t.Fatalf("expected zero summary, got %+v", s)
	}
	if len(unknown) != 0 {
		t.Fatalf("expected no unknown categories, got %v", unknown)
	}
}

func TestComputeScenario(t *testing.T) {
	// deposit 1000, payment 200, transfer 150 -> balance 650
	rows := []CategoryTotal{
		{Category: "deposit", Total: 100000},
		{Category: "payment", Total: 20000},
		{Category: "transfer", Total: 15000},
	}
	s, unknown := Compute(rows)
	if len(unknown) != 0 {
		t.Fatalf("unexpected unknown categories: %v", unknown)
	}
	if s.Balance != 65000 {
		t.Fatalf("expected balance 65000, got %d", s.Balance)
	}
	want := Breakdown{Deposit: 100000, Payment: 20000, Transfer: 15000, Withdrawal: 0}
	if s.Breakdown != want {
		t.Fatalf("expected breakdown %+v, got %+v", want, s.Breakdown)
	}
}

func TestBalanceInvariant(t *testing.T) {
	cases := [][]CategoryTotal{
		nil,
		{{Category: "deposit", Total: 1}},
		{{Category: "withdrawal", Total: 9999}},
		{
			{Category: "deposit", Total: 500000},
			{Category: "payment", Total: 123},
			{Category: "transfer", Total: 456},
			{Category: "withdrawal", Total: 789},
		},
		{
			{Category: "payment", Total: 100},
			{Category: "deposit", Total: 0},
		},
	}
	for i, rows := range cases {
		s, _ := Compute(rows)
		want := s.Breakdown.Deposit - (s.Breakdown.Payment + s.Breakdown.Transfer + s.Breakdown.Withdrawal)
		if s.Balance != want {
			t.Fatalf("case %d: balance %d does not match breakdown %+v", i, s.Balance, s.Breakdown)
		}
	}
}

func TestComputeAdditive(t *testing.T) {
	a := []CategoryTotal{
		{Category: "deposit", Total: 1000},
		{Category: "payment", Total: 300},
	}
	b := []CategoryTotal{
		{Category: "deposit", Total: 500},
		{Category: "transfer", Total: 200},
		{Category: "withdrawal", Total: 50},
	}
	sa, _ := Compute(a)
	sb, _ := Compute(b)
	both, _ := Compute(append(append([]CategoryTotal{}, a...), b...))

	sum := Breakdown{
		Deposit:    sa.Breakdown.Deposit + sb.Breakdown.Deposit,
		Payment:    sa.Breakdown.Payment + sb.Breakdown.Payment,
		Transfer:   sa.Breakdown.Transfer + sb.Breakdown.Transfer,
		Withdrawal: sa.Breakdown.Withdrawal + sb.Breakdown.Withdrawal,
	}
	if both.Breakdown != sum {
		t.Fatalf("breakdowns not additive: %+v vs %+v", both.Breakdown, sum)
	}
	if both.Balance != sa.Balance+sb.Balance {
		t.Fatalf("balances not additive: %d vs %d", both.Balance, sa.Balance+sb.Balance)
	}
}

func TestComputeSkipsUnknownCategories(t *testing.T) {
	rows := []CategoryTotal{
		{Category: "deposit", Total: 1000},
		{Category: "crypto", Total: 99999},
		{Category: "", Total: 5},
	}
	s, unknown := Compute(rows)
	if s.Balance != 1000 {
		t.Fatalf("unknown categories leaked into balance: %d", s.Balance)
	}
	if len(unknown) != 2 || unknown[0] != "crypto" || unknown[1] != "" {
		t.Fatalf("expected unknown [crypto, \"\"], got %v", unknown)
	}
}
