package hsmx_test

import (
	"context"
	"fmt"

	"github.com/comalice/hsmx"
)

func ExampleMachineBuilder() {
	b := hsmx.NewMachineBuilder("traffic", "green")
	b.State("green").On("timer", "yellow", nil, nil)
	b.State("yellow").On("timer", "red", nil, nil)
	b.State("red").On("timer", "green", nil, nil)

	m, err := b.BuildMachine()
	if err != nil {
		panic(err)
	}
	ctx := context.Background()
	_ = m.Start(ctx, nil)
	for i := 0; i < 3; i++ {
		_ = m.Fire(ctx, "timer", nil)
		fmt.Println(m.CurrentState())
	}
	// Output:
	// yellow
	// red
	// green
}

func ExampleMachine_history() {
	b := hsmx.NewMachineBuilder("session", "session")
	b.State("session").On("logout", "restore", nil, nil)
	b.State("session.sub").History(hsmx.HistoryShallow)
	b.State("session.sub.a").On("switch", "session.sub.b", nil, nil)
	b.State("session.sub.b")
	b.State("restore").On("load", "session", nil, nil)

	m, err := b.BuildMachine()
	if err != nil {
		panic(err)
	}
	ctx := context.Background()
	_ = m.Start(ctx, nil)
	for _, ev := range []hsmx.EventID{"switch", "logout", "load"} {
		_ = m.Fire(ctx, ev, nil)
		fmt.Printf("%s -> %s\n", ev, m.CurrentState())
	}
	// Output:
	// switch -> session.sub.b
	// logout -> restore
	// load -> session.sub.b
}

func ExampleMachine_Test() {
	b := hsmx.NewMachineBuilder("door", "closed")
	b.State("closed").On("open", "opened", nil, nil)
	b.State("opened").On("close", "closed", nil, nil)

	m, _ := b.BuildMachine()
	ctx := context.Background()

	next, _ := m.Test(ctx, "open", nil)
	fmt.Println(m.Status(), next)

	_ = m.Start(ctx, nil)
	_ = m.Fire(ctx, "open", nil)
	fmt.Println(m.Status(), m.CurrentState())
	// Output:
	// INITIALIZED opened
	// ACTIVE opened
}
