package canopy_test

import (
	"context"
	"fmt"
	"log"

	"github.com/petrijr/canopy"
)

type Zombie struct {
	Hungry         bool
	Food           int
	EnemiesAround  bool
	ShamblingSteps int
}

func (z *Zombie) HasFood() bool { return z.Food > 0 }

func (z *Zombie) Eat() {
	z.Food--
	z.Hungry = false
	fmt.Println("zombie eats")
}

// shamble takes two ticks to reach the food.
func shamble(z *Zombie) canopy.Status {
	if z.ShamblingSteps < 2 {
		z.ShamblingSteps++
		fmt.Printf("zombie shambles (%d)\n", z.ShamblingSteps)
		return canopy.StatusRunning
	}
	return canopy.StatusSuccess
}

func zombieTree() canopy.Tree[Zombie] {
	return canopy.NewBuilder[Zombie](canopy.WithName("zombie")).
		Sequence().
		BoolLeaf(func(z *Zombie) bool { return z.Hungry }).Named("hungry?").
		BoolLeaf((*Zombie).HasFood).Named("has food?").
		Inverter().
		BoolLeaf(func(z *Zombie) bool { return z.EnemiesAround }).Named("enemies?").
		End().
		Leaf(shamble).Named("shamble").
		VoidLeaf((*Zombie).Eat).Named("eat").
		End().
		MustBuild()
}

// Example demonstrates a tree that suspends while a leaf is still working
// and resumes at that leaf on the following calls.
func Example() {
	tree := zombieTree()
	z := &Zombie{Hungry: true, Food: 1}

	for tick := 1; ; tick++ {
		st := tree.Process(z)
		fmt.Printf("tick %d: %s\n", tick, st)
		if st != canopy.StatusRunning {
			break
		}
	}

	// Output:
	// zombie shambles (1)
	// tick 1: RUNNING
	// zombie shambles (2)
	// tick 2: RUNNING
	// zombie eats
	// tick 3: SUCCESS
}

// Example_cursors demonstrates one tree driving two independent runs.
func Example_cursors() {
	tree := zombieTree()

	alice, bob := tree.NewCursor(), tree.NewCursor()
	za := &Zombie{Hungry: true, Food: 1}
	zb := &Zombie{Hungry: true, Food: 1, EnemiesAround: true}

	fmt.Println("alice:", tree.ProcessWith(&alice, za))
	fmt.Println("bob:", tree.ProcessWith(&bob, zb))

	pos, _ := alice.Suspended()
	fmt.Println("alice suspended at:", tree.NodeName(pos))

	// Output:
	// zombie shambles (1)
	// alice: RUNNING
	// bob: FAILURE
	// alice suspended at: shamble
}

// Example_drive demonstrates driving a run to completion.
func Example_drive() {
	tree := zombieTree()
	z := &Zombie{Hungry: true, Food: 2}

	st, err := canopy.Drive(context.Background(), &tree, nil, z, canopy.Poll(10).Immediate().Policy())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(st, z.Food)

	// Output:
	// zombie shambles (1)
	// zombie shambles (2)
	// zombie eats
	// SUCCESS 1
}

// Example_outline prints the shape of a tree.
func Example_outline() {
	tree := zombieTree()
	fmt.Print(tree.String())

	// Output:
	// root
	//   sequence
	//     hungry?
	//     has food?
	//     inverter
	//       enemies?
	//     shamble
	//     eat
}
