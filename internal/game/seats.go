package game

// AddPlayer seats a new player in the first empty seat whose index is at most
// the seat cap. A player joining mid-hand sits out until the next deal.
func (t *Table) AddPlayer(name, identity string) (int, error) {
	limit := min(t.settings.SeatCap, NumSeats-1)
	for i := 0; i <= limit; i++ {
		if t.seats[i] != nil {
			continue
		}
		t.seats[i] = &Player{
			Name:     name,
			Identity: identity,
			Chips:    t.settings.StartingChips,
			Folded:   t.running,
		}
		t.touch()
		return i, nil
	}
	return -1, ErrTableFull
}

// RemovePlayer vacates a seat and shifts every higher seat down by one so the
// occupied seats stay contiguous. A player leaving mid-hand folds first and
// their contributions stay in the pot.
func (t *Table) RemovePlayer(seat int) error {
	if seat < 0 || seat >= NumSeats {
		return ErrSeatOutOfRange
	}
	p := t.seats[seat]
	if p == nil {
		return ErrSeatEmpty
	}
	if t.running {
		p.Folded = true
		p.HasActed = true
	}

	copy(t.seats[seat:], t.seats[seat+1:])
	t.seats[NumSeats-1] = nil

	switch {
	case t.OccupiedCount() == 0:
		t.button = -1
	case t.button > seat:
		t.button--
	case t.button == seat:
		t.button = t.prevOccupied(seat)
	}

	if t.running {
		// When the leaving player was acting, whoever slid into their seat
		// is next in line.
		if t.acting > seat {
			t.acting--
		}
		t.settle(t.acting - 1)
	}

	t.touch()
	return nil
}

// prevOccupied returns the closest occupied seat before seat, wrapping.
func (t *Table) prevOccupied(seat int) int {
	for i := 1; i <= NumSeats; i++ {
		s := ((seat-i)%NumSeats + NumSeats) % NumSeats
		if t.seats[s] != nil {
			return s
		}
	}
	return -1
}

// nextSeat returns the first seat after from (wrapping) whose player passes
// keep, or -1. It visits every seat at most once.
func (t *Table) nextSeat(from int, keep func(*Player) bool) int {
	for i := 1; i <= NumSeats; i++ {
		s := ((from+i)%NumSeats + NumSeats) % NumSeats
		if p := t.seats[s]; p != nil && keep(p) {
			return s
		}
	}
	return -1
}

// nextActor returns the next seat after from that can still bet.
func (t *Table) nextActor(from int) int {
	return t.nextSeat(from, (*Player).CanAct)
}

// liveSeats returns the seats still contesting the pot, in seat order.
func (t *Table) liveSeats() []int {
	var live []int
	for i, p := range t.seats {
		if p != nil && !p.Folded {
			live = append(live, i)
		}
	}
	return live
}

// bettorCount returns how many live players still have chips behind.
func (t *Table) bettorCount() int {
	n := 0
	for _, p := range t.seats {
		if p != nil && p.CanAct() {
			n++
		}
	}
	return n
}
