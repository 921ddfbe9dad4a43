package sequence

import (
	"fmt"
	"math"

	"github.com/phanxgames/canopy"
	"go.uber.org/zap"
)

// Options configures a Path.
type Options struct {
	// Transform maps field coordinates to the screen. Defaults to Identity.
	Transform FieldTransform
	// Logger defaults to the manager's logger.
	Logger *zap.Logger
	// DeleteKeys delete the focused (selected) node when pressed.
	DeleteKeys []canopy.Key
}

// Path keeps a path on the field and its command list in the panel in
// lockstep. Path elements alternate node, segment, node, ...; commands
// alternate inserter, command, inserter, ... so that a custom command can be
// added at any inserter.
type Path struct {
	mgr        *canopy.Manager
	field      *canopy.Entity
	panel      *canopy.Entity
	content    *canopy.Entity
	transform  FieldTransform
	logger     *zap.Logger
	deleteKeys []canopy.Key

	elements *canopy.List[*PathElement]
	commands *canopy.Chain
	slots    map[*canopy.Entity]*Command
	linker   *Linker

	scroll        float64
	recompute     bool
	forceExpand   bool
	forceCollapse bool
	highlighted   *Command
}

// NewPath creates a path with a single start node at start (field
// coordinates). field hosts the nodes and segments; panel hosts the command
// list, which scrolls with the mouse wheel.
func NewPath(mgr *canopy.Manager, field, panel *canopy.Entity, start canopy.Vec2, opts Options) *Path {
	p := &Path{
		mgr:        mgr,
		field:      field,
		panel:      panel,
		transform:  opts.Transform,
		logger:     opts.Logger,
		deleteKeys: opts.DeleteKeys,
		linker:     NewLinker(),
		slots:      make(map[*canopy.Entity]*Command),
	}
	if p.transform == nil {
		p.transform = Identity{}
	}
	if p.logger == nil {
		p.logger = mgr.Logger()
	}
	p.elements = canopy.NewList(p.onElementMoved)

	p.content = mgr.NewEntity(panel, canopy.EntityConfig{
		Name:      "command list",
		DrawOrder: canopy.DrawOrderPanel,
		Geometry: canopy.Geometry{
			Top:    func(*canopy.Entity) float64 { return panel.Top() + p.scroll },
			Height: func(*canopy.Entity) float64 { return p.TotalCommandHeight() },
		},
		Listeners: canopy.Listeners{
			Tick: &canopy.TickFuncs{End: func(float64) { p.flush() }},
		},
		RecomputeWhenInvisible: true,
	})
	panel.SetListeners(mergeWheel(panel.Listeners(), &canopy.WheelFuncs{
		Wheel: func(ctx canopy.WheelContext) { p.Scroll(ctx.DY * ScrollSpeed) },
	}))
	p.commands = canopy.NewChain(p.content)

	p.addInserter()
	p.addRawNode(start)
	p.addInserter()
	return p
}

func mergeWheel(l canopy.Listeners, w canopy.WheelListener) canopy.Listeners {
	l.Wheel = w
	return l
}

// Linker returns the element/command linker.
func (p *Path) Linker() *Linker { return p.linker }

// Commands returns the command chain (commands and inserters, alternating).
func (p *Path) Commands() *canopy.Chain { return p.commands }

// Content returns the scrolling entity that anchors the command chain.
func (p *Path) Content() *canopy.Entity { return p.content }

// Elements returns the path elements in order.
func (p *Path) Elements() []*PathElement {
	out := make([]*PathElement, 0, p.elements.Len())
	for el := range p.elements.Values() {
		out = append(out, el)
	}
	return out
}

// Nodes returns the path's nodes in order.
func (p *Path) Nodes() []*PathElement {
	var out []*PathElement
	for el := range p.elements.Values() {
		if el.Kind == KindNode {
			out = append(out, el)
		}
	}
	return out
}

// MarkChanged schedules the command list layout to be recomputed at the end
// of the current tick. Calling it many times per tick is cheap.
func (p *Path) MarkChanged() {
	p.recompute = true
}

// flush runs after every command has ticked, so all target heights are known.
func (p *Path) flush() {
	if !p.recompute {
		return
	}
	p.recompute = false
	p.clampScroll()
	p.content.RecomputePosition()
}

// Scroll moves the command list by dy, clamped so the list stays in view.
func (p *Path) Scroll(dy float64) {
	p.scroll += dy
	p.clampScroll()
	p.content.RecomputePosition()
}

// ScrollOffset returns the current scroll offset (zero or negative).
func (p *Path) ScrollOffset() float64 { return p.scroll }

func (p *Path) clampScroll() {
	minScroll := math.Min(0, p.panel.Height()-p.TotalCommandHeight())
	p.scroll = math.Max(minScroll, math.Min(0, p.scroll))
}

// --- Construction ---

func (p *Path) addInserter() *Inserter {
	ins := newInserter(p)
	p.must(p.commands.AddToEnd(ins.Entity))
	return ins
}

func (p *Path) addRawNode(pos canopy.Vec2) *PathElement {
	node := newNode(p, pos)
	node.link = canopy.NewListNode(node)
	p.must(p.elements.AddToEnd(node.link))

	cmd := newCommand(p, CommandTurn)
	p.must(p.commands.AddToEnd(cmd.Slot))
	p.linker.LinkNode(node, cmd)
	return node
}

func (p *Path) addRawSegment() *PathElement {
	seg := newSegment(p)
	seg.link = canopy.NewListNode(seg)
	p.must(p.elements.AddToEnd(seg.link))

	cmd := newCommand(p, seg.Segment.CommandType())
	p.must(p.commands.AddToEnd(cmd.Slot))
	p.linker.LinkSegment(seg, cmd)
	return seg
}

// must logs an error from a chain or list operation that cannot fail when
// the path's own bookkeeping is consistent.
func (p *Path) must(err error) {
	if err != nil {
		p.logger.Error("path structure out of sync", zap.Error(err))
		panic(err)
	}
}

// AddNode extends the path with a segment and a new node at pos (field
// coordinates).
func (p *Path) AddNode(pos canopy.Vec2) *PathElement {
	seg := p.addRawSegment()
	p.addInserter()
	node := p.addRawNode(pos)
	p.addInserter()

	seg.Entity.RecomputePosition()
	p.MarkChanged()
	return node
}

// DeleteNode removes node together with the segment leading to it and the
// commands (and following inserters) of both.
func (p *Path) DeleteNode(node *PathElement) error {
	if node.Kind != KindNode {
		return fmt.Errorf("delete node: element is a segment")
	}
	seg := node.Prev()
	if seg == nil {
		return ErrStartNode
	}
	var cmds []*Command
	if cmd, err := p.linker.CommandFor(node); err == nil {
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, p.linker.CommandsFor(seg)...)
	for _, cmd := range cmds {
		if err := p.removeCommand(cmd); err != nil {
			return err
		}
	}
	p.linker.UnlinkNode(node)
	p.linker.UnlinkSegment(seg)

	for _, el := range []*PathElement{seg, node} {
		if err := p.elements.Remove(el.link); err != nil {
			p.logger.Error("delete node", zap.Error(err))
			return err
		}
		p.mgr.Remove(el.Entity)
	}
	p.MarkChanged()
	return nil
}

// --- Custom commands ---

// AddCustomCommand adds a custom command right after ins, followed by a new
// inserter.
func (p *Path) AddCustomCommand(ins *Inserter) (*Command, error) {
	cmd := newCommand(p, CommandCustom)
	if err := p.commands.InsertAfter(ins.Entity, cmd.Slot); err != nil {
		p.logger.Error("add custom command", zap.Error(err))
		p.discard(cmd)
		return nil, err
	}
	next := newInserter(p)
	p.must(p.commands.InsertAfter(cmd.Slot, next.Entity))
	p.MarkChanged()
	return cmd, nil
}

// DeleteCustomCommand removes a custom command and the inserter after it.
func (p *Path) DeleteCustomCommand(cmd *Command) error {
	if cmd.Type != CommandCustom {
		return ErrNotCustom
	}
	if err := p.removeCommand(cmd); err != nil {
		return err
	}
	p.MarkChanged()
	return nil
}

// removeCommand unlinks cmd and its following inserter and removes both
// entities.
func (p *Path) removeCommand(cmd *Command) error {
	next := p.commands.Next(cmd.Slot)
	if next != nil {
		if err := p.commands.Remove(next); err != nil {
			p.logger.Error("remove inserter", zap.Error(err))
			return err
		}
		p.mgr.Remove(next)
	}
	if err := p.commands.Remove(cmd.Slot); err != nil {
		p.logger.Error("remove command", zap.Error(err))
		return err
	}
	p.discard(cmd)
	return nil
}

func (p *Path) discard(cmd *Command) {
	if p.highlighted == cmd {
		p.highlighted = nil
	}
	delete(p.slots, cmd.Slot)
	p.mgr.Remove(cmd.Slot)
}

// CommandAt returns the command whose slot is e, or nil.
func (p *Path) CommandAt(e *canopy.Entity) *Command {
	return p.slots[e]
}

// MoveCommand moves a custom command (with the inserter after it) to just
// after ins. It reports false when the move would not change the order.
func (p *Path) MoveCommand(cmd *Command, ins *Inserter) (bool, error) {
	if cmd.Type != CommandCustom {
		return false, ErrNotCustom
	}
	before := p.commands.Prev(cmd.Slot)
	after := p.commands.Next(cmd.Slot)
	if ins.Entity == before || ins.Entity == after {
		return false, nil
	}
	if !p.commands.Contains(ins.Entity) {
		return false, fmt.Errorf("move command: %w", canopy.ErrUnlinkedNode)
	}

	if err := p.commands.Remove(after); err != nil {
		return false, err
	}
	if err := p.commands.Remove(cmd.Slot); err != nil {
		return false, err
	}
	p.must(p.commands.InsertAfter(ins.Entity, cmd.Slot))
	p.must(p.commands.InsertAfter(cmd.Slot, after))
	p.logger.Debug("moved command", zap.Stringer("command", cmd.ID))
	p.MarkChanged()
	return true, nil
}

// ClosestInserter returns the inserter whose vertical center is closest to
// y, or nil when that inserter is adjacent to exclude (moving exclude there
// would not change the order). On a tie the earlier inserter wins.
func (p *Path) ClosestInserter(y float64, exclude *Command) *Inserter {
	var best *Inserter
	bestDist := math.Inf(1)
	for e := range p.commands.All() {
		ins, ok := e.UserData.(*Inserter)
		if !ok {
			continue
		}
		if d := math.Abs(e.CenterY() - y); d < bestDist {
			best, bestDist = ins, d
		}
	}
	if best != nil && exclude != nil {
		if best.Entity == p.commands.Prev(exclude.Slot) || best.Entity == p.commands.Next(exclude.Slot) {
			return nil
		}
	}
	return best
}

// --- Queries ---

// TotalCommandHeight returns the height of all commands and inserters.
func (p *Path) TotalCommandHeight() float64 {
	return p.commands.Height()
}

// EachCommand calls fn for every command in list order.
func (p *Path) EachCommand(fn func(*Command)) {
	for e := range p.commands.All() {
		if cmd, ok := p.slots[e]; ok {
			fn(cmd)
		}
	}
}

// CommandsInOrder returns the commands in list order.
func (p *Path) CommandsInOrder() []*Command {
	var out []*Command
	p.EachCommand(func(c *Command) { out = append(out, c) })
	return out
}

// SetAllLocalExpansion sets every command's own expansion flag.
func (p *Path) SetAllLocalExpansion(expanded bool) {
	p.EachCommand(func(c *Command) { c.SetLocalExpansion(expanded) })
}

// SetForceExpand expands every command regardless of its own flag.
func (p *Path) SetForceExpand(on bool) {
	p.forceExpand = on
	if on {
		p.forceCollapse = false
	}
	p.retargetAll()
}

// SetForceCollapse collapses every command regardless of its own flag.
func (p *Path) SetForceCollapse(on bool) {
	p.forceCollapse = on
	if on {
		p.forceExpand = false
	}
	p.retargetAll()
}

func (p *Path) retargetAll() {
	p.EachCommand(func(c *Command) { c.retarget() })
	p.MarkChanged()
}

// Highlighted returns the highlighted command, or nil.
func (p *Path) Highlighted() *Command { return p.highlighted }

// Highlight toggles the highlight on cmd. Highlighting expands cmd and
// collapses every other command.
func (p *Path) Highlight(cmd *Command) {
	if p.highlighted == cmd {
		p.highlighted = nil
		cmd.SetLocalExpansion(false)
		p.MarkChanged()
		return
	}
	p.highlighted = cmd
	p.forceCollapse = false
	p.SetAllLocalExpansion(false)
	cmd.SetLocalExpansion(true)
	p.MarkChanged()
}

func (p *Path) highlightElement(el *PathElement) {
	cmd, err := p.linker.CommandFor(el)
	if err != nil {
		p.logger.Warn("no command for element", zap.Error(err))
		return
	}
	if p.highlighted != cmd {
		p.Highlight(cmd)
	}
}

// onElementMoved is the path list hook: segments re-read their endpoints
// whenever their neighbors change.
func (p *Path) onElementMoved(n *canopy.ListNode[*PathElement]) {
	el := n.Value
	if el.Kind == KindSegment && !el.Entity.IsDisposed() {
		el.Entity.RecomputePosition()
	}
}
