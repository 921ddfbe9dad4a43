package sequence

import (
	"testing"

	"github.com/phanxgames/canopy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newTestPath builds a 400x300 screen with the field on the left half and
// the panel on the right half, and a path starting at (50, 50).
func newTestPath(t *testing.T) (*canopy.Manager, *Path) {
	t.Helper()
	mgr := canopy.NewManager(canopy.DefaultConfig())
	mgr.SetScreenSize(400, 300)
	field := mgr.NewEntity(nil, canopy.EntityConfig{
		Name:      "field",
		DrawOrder: canopy.DrawOrderFieldBackground,
		Placement: canopy.Placement{PWidth: 0.5, PHeight: 1},
	})
	panel := mgr.NewEntity(nil, canopy.EntityConfig{
		Name:      "panel",
		DrawOrder: canopy.DrawOrderPanel,
		Placement: canopy.Placement{PX: 0.5, PWidth: 0.5, PHeight: 1},
	})
	return mgr, NewPath(mgr, field, panel, canopy.Vec2{X: 50, Y: 50}, Options{})
}

func commandTypes(p *Path) []CommandType {
	var out []CommandType
	p.EachCommand(func(c *Command) { out = append(out, c.Type) })
	return out
}

func inserters(p *Path) []*Inserter {
	var out []*Inserter
	for e := range p.Commands().All() {
		if ins, ok := e.UserData.(*Inserter); ok {
			out = append(out, ins)
		}
	}
	return out
}

func TestNewPath_InitialLayout(t *testing.T) {
	_, p := newTestPath(t)

	assert.Equal(t, 3, p.Commands().Len())
	assert.Equal(t, []CommandType{CommandTurn}, commandTypes(p))
	assert.Len(t, p.Nodes(), 1)
	assert.InDelta(t, InserterHeight*2+CollapsedHeight, p.TotalCommandHeight(), 1e-9)

	ins := inserters(p)
	require.Len(t, ins, 2)
	assert.InDelta(t, 0, ins[0].Entity.Top(), 1e-9)
	assert.InDelta(t, 45, ins[1].Entity.Top(), 1e-9)
	assert.InDelta(t, 200, ins[1].Entity.Left(), 1e-9)
	assert.InDelta(t, 200, ins[1].Entity.Width(), 1e-9)

	turn := p.CommandsInOrder()[0]
	assert.Equal(t, KindNode, turn.Element().Kind)
	assert.InDelta(t, 10, turn.Block.Top(), 1e-9)
}

func TestAddNode_AlternatesCommandsAndInserters(t *testing.T) {
	_, p := newTestPath(t)
	n1 := p.AddNode(canopy.Vec2{X: 150, Y: 50})

	assert.Equal(t, []CommandType{CommandTurn, CommandStraight, CommandTurn}, commandTypes(p))
	assert.Equal(t, 7, p.Commands().Len())
	assert.InDelta(t, 145, p.TotalCommandHeight(), 1e-9)

	els := p.Elements()
	require.Len(t, els, 3)
	assert.Equal(t, KindSegment, els[1].Kind)
	assert.Same(t, n1, els[2])

	seg := els[1].Entity
	assert.InDelta(t, 47, seg.Left(), 1e-9)
	assert.InDelta(t, 106, seg.Width(), 1e-9)
	assert.InDelta(t, 6, seg.Height(), 1e-9)

	i := 0
	for e := range p.Commands().All() {
		_, isInserter := e.UserData.(*Inserter)
		assert.Equal(t, i%2 == 0, isInserter, "member %d", i)
		i++
	}
}

func TestAddCustomCommand_InsertsAfterInserter(t *testing.T) {
	_, p := newTestPath(t)
	p.AddNode(canopy.Vec2{X: 150, Y: 50})

	ins := inserters(p)
	cmd, err := p.AddCustomCommand(ins[1])
	require.NoError(t, err)

	assert.Equal(t, []CommandType{CommandTurn, CommandCustom, CommandStraight, CommandTurn}, commandTypes(p))
	assert.Same(t, ins[1].Entity, cmd.Slot.Parent())
	assert.Nil(t, cmd.Element())
	assert.InDelta(t, 55, cmd.Slot.Top(), 1e-9)
	assert.InDelta(t, ExpandedHeight, cmd.Slot.Height(), 1e-9)
	assert.InDelta(t, 205, p.TotalCommandHeight(), 1e-9)

	// The inserter added after the custom command is its chain child.
	next := p.Commands().Next(cmd.Slot)
	require.NotNil(t, next)
	assert.IsType(t, &Inserter{}, next.UserData)
	assert.Same(t, cmd.Slot, next.Parent())
	assert.InDelta(t, 105, next.Top(), 1e-9)
}

func TestInserterClickAddsCustomCommand(t *testing.T) {
	mgr, p := newTestPath(t)
	ins := inserters(p)

	mgr.Interactor().MouseDown(300, 50, false, 0)
	mgr.Interactor().MouseUp(300, 50)

	assert.Equal(t, []CommandType{CommandTurn, CommandCustom}, commandTypes(p))
	cmd := p.CommandsInOrder()[1]
	assert.Same(t, ins[1].Entity, cmd.Slot.Parent())
	assert.Equal(t, 5, p.Commands().Len())
}

func TestInserterClickOutsideCommandListIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mgr := canopy.NewManager(canopy.DefaultConfig())
	mgr.SetScreenSize(400, 300)
	field := mgr.NewEntity(nil, canopy.EntityConfig{Placement: canopy.Placement{PWidth: 0.5, PHeight: 1}})
	panel := mgr.NewEntity(nil, canopy.EntityConfig{Placement: canopy.Placement{PX: 0.5, PWidth: 0.5, PHeight: 1}})
	p := NewPath(mgr, field, panel, canopy.Vec2{X: 50, Y: 50}, Options{Logger: zap.New(core)})

	tail := inserters(p)[1]
	require.NoError(t, p.Commands().Remove(tail.Entity))
	live := mgr.Len()

	require.NotPanics(t, func() { tail.click(canopy.ClickContext{Entity: tail.Entity}) })
	assert.Equal(t, []CommandType{CommandTurn}, commandTypes(p))
	assert.Equal(t, live, mgr.Len(), "the rejected command is disposed")
	assert.Equal(t, 1, logs.FilterMessage("inserter click ignored").Len())
}

func TestClosestInserter(t *testing.T) {
	_, p := newTestPath(t)
	p.AddNode(canopy.Vec2{X: 150, Y: 50})
	ins := inserters(p)
	cmd, err := p.AddCustomCommand(ins[1])
	require.NoError(t, err)

	// Inserter centers: 5, 50, 110, 155, 200.
	all := inserters(p)
	require.Len(t, all, 5)

	assert.Same(t, all[3], p.ClosestInserter(150, cmd))
	assert.Same(t, all[4], p.ClosestInserter(1000, nil))
	assert.Nil(t, p.ClosestInserter(52, cmd), "inserter before the command is a no-op target")
	assert.Nil(t, p.ClosestInserter(108, cmd), "inserter after the command is a no-op target")

	// Equidistant from the first two inserters: the earlier one wins.
	assert.Same(t, all[0], p.ClosestInserter(27.5, nil))
}

func TestMoveCommand(t *testing.T) {
	_, p := newTestPath(t)
	p.AddNode(canopy.Vec2{X: 150, Y: 50})
	cmd, err := p.AddCustomCommand(inserters(p)[1])
	require.NoError(t, err)

	all := inserters(p)
	moved, err := p.MoveCommand(cmd, all[4])
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []CommandType{CommandTurn, CommandStraight, CommandTurn, CommandCustom}, commandTypes(p))
	assert.Same(t, all[4].Entity, cmd.Slot.Parent())
	assert.Same(t, all[2].Entity, p.Commands().Tail(), "the command's own inserter moved with it")
	assert.Contains(t, cmd.Slot.Children(), cmd.Block)

	moved, err = p.MoveCommand(cmd, all[4])
	require.NoError(t, err)
	assert.False(t, moved)

	turn := p.CommandsInOrder()[0]
	_, err = p.MoveCommand(turn, all[0])
	assert.ErrorIs(t, err, ErrNotCustom)
}

func TestDeleteCustomCommand(t *testing.T) {
	mgr, p := newTestPath(t)
	p.AddNode(canopy.Vec2{X: 150, Y: 50})
	ins := inserters(p)
	cmd, err := p.AddCustomCommand(ins[1])
	require.NoError(t, err)
	after := p.Commands().Next(cmd.Slot)
	before := mgr.Len()

	require.NoError(t, p.DeleteCustomCommand(cmd))
	assert.Equal(t, []CommandType{CommandTurn, CommandStraight, CommandTurn}, commandTypes(p))
	assert.True(t, cmd.Slot.IsDisposed())
	assert.True(t, cmd.Block.IsDisposed())
	assert.True(t, after.IsDisposed())
	assert.Equal(t, before-3, mgr.Len())
	assert.Nil(t, p.CommandAt(cmd.Slot))

	straight := p.CommandsInOrder()[1]
	assert.Same(t, ins[1].Entity, straight.Slot.Parent())

	assert.ErrorIs(t, p.DeleteCustomCommand(straight), ErrNotCustom)
}

func TestDeleteNode(t *testing.T) {
	_, p := newTestPath(t)
	p.AddNode(canopy.Vec2{X: 150, Y: 50})
	n2 := p.AddNode(canopy.Vec2{X: 150, Y: 150})
	nodes := p.Nodes()
	require.Len(t, nodes, 3)

	require.NoError(t, p.DeleteNode(nodes[1]))
	els := p.Elements()
	require.Len(t, els, 3)
	assert.Same(t, nodes[0], els[0])
	assert.Same(t, n2, els[2])
	assert.Equal(t, []CommandType{CommandTurn, CommandStraight, CommandTurn}, commandTypes(p))
	assert.Equal(t, 7, p.Commands().Len())

	// The remaining segment now spans the first and last node.
	seg := els[1].Entity
	assert.InDelta(t, 47, seg.Left(), 1e-9)
	assert.InDelta(t, 47, seg.Top(), 1e-9)
	assert.InDelta(t, 106, seg.Height(), 1e-9)

	assert.ErrorIs(t, p.DeleteNode(nodes[0]), ErrStartNode)
}

func TestClickTogglesExpansion(t *testing.T) {
	mgr, p := newTestPath(t)
	turn := p.CommandsInOrder()[0]
	require.InDelta(t, 0, turn.Expansion(), 1e-9)

	mgr.Interactor().MouseDown(300, 27, false, 0)
	mgr.Interactor().MouseUp(300, 27)
	assert.True(t, turn.IsExpanded())

	mgr.Update(1)
	assert.InDelta(t, 1, turn.Expansion(), 1e-9)
	assert.InDelta(t, ExpandedHeight, turn.Slot.Height(), 1e-9)
	assert.InDelta(t, 70, p.TotalCommandHeight(), 1e-9)
	assert.InDelta(t, 60, p.Commands().Tail().Top(), 1e-9)
}

func TestForceFlags(t *testing.T) {
	_, p := newTestPath(t)
	p.AddNode(canopy.Vec2{X: 150, Y: 50})

	p.SetForceExpand(true)
	p.EachCommand(func(c *Command) { assert.True(t, c.IsExpanded()) })

	p.SetForceCollapse(true)
	p.EachCommand(func(c *Command) { assert.False(t, c.IsExpanded()) })

	// Toggling a command hidden by force-collapse lifts the flag, expands
	// that command and leaves the others collapsed as displayed.
	cmds := p.CommandsInOrder()
	cmds[0].SetLocalExpansion(true)
	cmds[1].SetLocalExpansion(true)
	cmds[0].Toggle()
	assert.False(t, p.forceCollapse)
	assert.True(t, cmds[0].IsExpanded())
	assert.False(t, cmds[1].IsExpanded())
	assert.False(t, cmds[2].IsExpanded())
}

func TestDragReordersCustomCommand(t *testing.T) {
	mgr, p := newTestPath(t)
	p.AddNode(canopy.Vec2{X: 150, Y: 50})
	cmd, err := p.AddCustomCommand(inserters(p)[1])
	require.NoError(t, err)
	in := mgr.Interactor()

	// The custom block spans y 55..105.
	in.MouseDown(300, 80, false, 0)
	in.MouseMove(300, 90)
	require.Same(t, cmd.Block, in.Dragging())
	assert.True(t, cmd.IsDragging())
	assert.InDelta(t, DragOpacity, cmd.Block.Opacity(), 1e-9)
	assert.InDelta(t, 90, cmd.Block.CenterY(), 1e-9)
	assert.Equal(t, []CommandType{CommandTurn, CommandCustom, CommandStraight, CommandTurn}, commandTypes(p))

	in.MouseMove(300, 160)
	assert.Equal(t, []CommandType{CommandTurn, CommandStraight, CommandCustom, CommandTurn}, commandTypes(p))

	// Beyond the end of the list the offset is rejected.
	in.MouseMove(300, 1000)
	assert.InDelta(t, 160, cmd.Block.CenterY(), 1e-9)

	in.MouseUp(300, 160)
	assert.False(t, cmd.IsDragging())
	assert.Nil(t, in.Dragging())
}

func TestNodeDragMovesSegment(t *testing.T) {
	mgr, p := newTestPath(t)
	p.AddNode(canopy.Vec2{X: 150, Y: 50})
	n0 := p.Nodes()[0]
	seg := p.Elements()[1]
	in := mgr.Interactor()

	in.MouseDown(50, 50, false, 0)
	assert.True(t, in.IsSelected(n0.Entity))
	turn, err := p.Linker().CommandFor(n0)
	require.NoError(t, err)
	assert.Same(t, turn, p.Highlighted())

	in.MouseMove(60, 50)
	assert.Equal(t, canopy.Vec2{X: 60, Y: 50}, n0.Position)
	assert.InDelta(t, 57, seg.Entity.Left(), 1e-9)

	// Outside the field the move is rejected.
	in.MouseMove(250, 50)
	assert.Equal(t, canopy.Vec2{X: 60, Y: 50}, n0.Position)
	in.MouseUp(250, 50)
}

func TestWheelScrollsCommandList(t *testing.T) {
	mgr, p := newTestPath(t)
	p.AddNode(canopy.Vec2{X: 150, Y: 50})
	mgr.SetScreenSize(400, 100)

	p.Scroll(-100)
	assert.InDelta(t, -45, p.ScrollOffset(), 1e-9)
	assert.InDelta(t, -45, p.Content().Top(), 1e-9)

	mgr.Interactor().MouseWheel(300, 20, 0, 1)
	assert.InDelta(t, -25, p.ScrollOffset(), 1e-9)
	assert.InDelta(t, -25, p.Content().Top(), 1e-9)
}

type recordingCanvas struct {
	rects   []canopy.Rect
	circles int
	lines   int
	alphas  []float64
	labels  []string
}

func (c *recordingCanvas) FillRect(r canopy.Rect, col canopy.Color) {
	c.rects = append(c.rects, r)
	c.alphas = append(c.alphas, col.A)
}

func (c *recordingCanvas) FillCircle(_, _, _ float64, _ canopy.Color) { c.circles++ }

func (c *recordingCanvas) StrokeLine(_, _, _, _, _ float64, _ canopy.Color) { c.lines++ }

func (c *recordingCanvas) DrawText(s string, _, _ float64, _ canopy.Color) {
	c.labels = append(c.labels, s)
}

func TestPaint(t *testing.T) {
	mgr, p := newTestPath(t)
	p.AddNode(canopy.Vec2{X: 150, Y: 50})

	cv := &recordingCanvas{}
	mgr.Paint(cv)
	assert.Equal(t, 2, cv.circles)
	assert.Equal(t, 1, cv.lines)
	assert.Len(t, cv.rects, 3, "one rect per command block; idle inserters draw nothing")
	assert.ElementsMatch(t, []string{"turn", "straight", "turn"}, cv.labels)
}

func TestDeleteKeyRemovesFocusedNode(t *testing.T) {
	mgr := canopy.NewManager(canopy.DefaultConfig())
	mgr.SetScreenSize(400, 300)
	field := mgr.NewEntity(nil, canopy.EntityConfig{
		DrawOrder: canopy.DrawOrderFieldBackground,
		Placement: canopy.Placement{PWidth: 0.5, PHeight: 1},
	})
	panel := mgr.NewEntity(nil, canopy.EntityConfig{
		DrawOrder: canopy.DrawOrderPanel,
		Placement: canopy.Placement{PX: 0.5, PWidth: 0.5, PHeight: 1},
	})
	del := canopy.Key(7)
	p := NewPath(mgr, field, panel, canopy.Vec2{X: 50, Y: 50}, Options{DeleteKeys: []canopy.Key{del}})
	n1 := p.AddNode(canopy.Vec2{X: 150, Y: 50})
	in := mgr.Interactor()

	in.MouseDown(150, 50, false, 0)
	in.MouseUp(150, 50)
	require.Same(t, n1.Entity, in.Focus())

	in.KeyDown(canopy.Key(8), 0)
	assert.Len(t, p.Nodes(), 2, "other keys are ignored")

	in.KeyDown(del, 0)
	assert.Len(t, p.Nodes(), 1)
	assert.True(t, n1.Entity.IsDisposed())
	assert.Nil(t, in.Focus())

	// The start node cannot be deleted.
	in.MouseDown(50, 50, false, 0)
	in.MouseUp(50, 50)
	in.KeyDown(del, 0)
	assert.Len(t, p.Nodes(), 1)
}
