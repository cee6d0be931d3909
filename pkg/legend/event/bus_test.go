package event

import "testing"

func TestBusEmit(t *testing.T) {
	b := NewBus()
	var got []float64
	b.On("point:mousemove", func(ev Event) {
		got = append(got, ev.Origin["value"].(float64))
	})

	b.Emit(Event{Name: "point:mousemove", Origin: Record{"value": 3.0}})
	b.Emit(Event{Name: "label:mousemove", Data: Record{"value": 9.0}})
	b.Emit(Event{Name: "point:mousemove", Origin: Record{"value": 4.0}})

	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("handler saw %v, want [3 4]", got)
	}
}

func TestBusDisposer(t *testing.T) {
	b := NewBus()
	calls := 0
	offA := b.On("label:click", func(Event) { calls++ })
	offB := b.On("label:click", func(Event) { calls += 10 })

	if n := b.Listeners("label:click"); n != 2 {
		t.Fatalf("Listeners() = %d, want 2", n)
	}

	offA()
	offA() // second call is a no-op
	b.Emit(Event{Name: "label:click"})
	if calls != 10 {
		t.Errorf("calls = %d, want 10", calls)
	}

	offB()
	if n := b.Total(); n != 0 {
		t.Errorf("Total() = %d, want 0", n)
	}
	b.Emit(Event{Name: "label:click"})
	if calls != 10 {
		t.Errorf("calls after dispose = %d, want 10", calls)
	}
}

func TestBusHandlerOrder(t *testing.T) {
	b := NewBus()
	var order []int
	for i := 0; i < 3; i++ {
		b.On("x", func(Event) { order = append(order, i) })
	}
	b.Emit(Event{Name: "x"})
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want [0 1 2]", order)
		}
	}
}
