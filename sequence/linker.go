package sequence

import (
	"fmt"

	"github.com/google/uuid"
)

// Linker maps path elements to the commands that drive them and back. A
// node has exactly one command; a segment may have several (one per
// segment shape it has been given).
type Linker struct {
	nodeToCommand     map[uuid.UUID]*Command
	segmentToCommands map[uuid.UUID][]*Command
	commandToElement  map[uuid.UUID]*PathElement
}

// NewLinker returns an empty linker.
func NewLinker() *Linker {
	return &Linker{
		nodeToCommand:     make(map[uuid.UUID]*Command),
		segmentToCommands: make(map[uuid.UUID][]*Command),
		commandToElement:  make(map[uuid.UUID]*PathElement),
	}
}

// LinkNode links a node to its turn command.
func (l *Linker) LinkNode(node *PathElement, cmd *Command) {
	l.nodeToCommand[node.ID] = cmd
	l.commandToElement[cmd.ID] = node
}

// LinkSegment adds cmd to the commands of a segment.
func (l *Linker) LinkSegment(segment *PathElement, cmd *Command) {
	l.segmentToCommands[segment.ID] = append(l.segmentToCommands[segment.ID], cmd)
	l.commandToElement[cmd.ID] = segment
}

// CommandFor returns the command driving el. For segments this is the
// command matching the segment's current shape.
func (l *Linker) CommandFor(el *PathElement) (*Command, error) {
	if el.Kind == KindNode {
		if cmd, ok := l.nodeToCommand[el.ID]; ok {
			return cmd, nil
		}
		return nil, fmt.Errorf("node %s: %w", el.ID, ErrNoCommand)
	}
	want := el.Segment.CommandType()
	for _, cmd := range l.segmentToCommands[el.ID] {
		if cmd.Type == want {
			return cmd, nil
		}
	}
	return nil, fmt.Errorf("segment %s (%s): %w", el.ID, want, ErrNoCommand)
}

// CommandsFor returns every command linked to a segment.
func (l *Linker) CommandsFor(segment *PathElement) []*Command {
	return l.segmentToCommands[segment.ID]
}

// ElementFor returns the element a command drives, or nil for custom commands.
func (l *Linker) ElementFor(cmd *Command) *PathElement {
	return l.commandToElement[cmd.ID]
}

// UnlinkNode drops a node and its command.
func (l *Linker) UnlinkNode(node *PathElement) {
	if cmd, ok := l.nodeToCommand[node.ID]; ok {
		delete(l.commandToElement, cmd.ID)
	}
	delete(l.nodeToCommand, node.ID)
}

// UnlinkSegment drops a segment and all of its commands.
func (l *Linker) UnlinkSegment(segment *PathElement) {
	for _, cmd := range l.segmentToCommands[segment.ID] {
		delete(l.commandToElement, cmd.ID)
	}
	delete(l.segmentToCommands, segment.ID)
}
