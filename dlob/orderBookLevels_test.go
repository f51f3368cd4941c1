package dlob

import (
	"testing"

	"github.com/drift-labs/dlobd/dlob/types"
)

func TestGetL2AggregatesSamePriceLevels(t *testing.T) {
	book := New([]uint16{testMarket})
	if err := book.Insert(askOrder(1, 100, 1, false), "asker1"); err != nil {
		t.Fatal(err)
	}
	if err := book.Insert(askOrder(2, 100, 2, false), "asker2"); err != nil {
		t.Fatal(err)
	}
	if err := book.Insert(askOrder(3, 105, 3, false), "asker3"); err != nil {
		t.Fatal(err)
	}

	l2, err := book.GetL2(testMarket, nil, nil, 10, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(l2.Asks) != 2 {
		t.Fatalf("expected two aggregated ask levels, got %d", len(l2.Asks))
	}
	if l2.Asks[0].Price.Int64() != 100 || l2.Asks[0].Size.Int64() != 2 {
		t.Fatalf("expected the 100 level to aggregate size 2, got price=%s size=%s",
			l2.Asks[0].Price.String(), l2.Asks[0].Size.String())
	}
	if l2.Asks[1].Price.Int64() != 105 {
		t.Fatalf("expected the second level at 105, got %s", l2.Asks[1].Price.String())
	}
}

func TestGetL2UnknownMarket(t *testing.T) {
	book := New([]uint16{testMarket})
	_, err := book.GetL2(99, nil, nil, 10, nil, 0)
	if err != types.UnknownMarket {
		t.Fatalf("expected UnknownMarket, got %v", err)
	}
}

func TestGetL3IdentifiesMaker(t *testing.T) {
	book := New([]uint16{testMarket})
	userAccount := "So11111111111111111111111111111111111111112"
	if err := book.Insert(askOrder(1, 100, 1, false), userAccount); err != nil {
		t.Fatal(err)
	}

	l3, err := book.GetL3(testMarket, nil, nil, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(l3.Asks) != 1 {
		t.Fatalf("expected one ask level, got %d", len(l3.Asks))
	}
	if l3.Asks[0].Maker.String() != userAccount {
		t.Fatalf("expected maker %s, got %s", userAccount, l3.Asks[0].Maker.String())
	}
}
