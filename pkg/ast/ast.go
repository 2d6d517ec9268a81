package ast

import (
	"github.com/SpritzLanguage/Spritz-sub000/pkg/lexer"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

type NodeType string

const (
	NodeProgram     NodeType = "Program"
	NodeNumber      NodeType = "Number"
	NodeString      NodeType = "String"
	NodeBoolean     NodeType = "Boolean"
	NodeNull        NodeType = "Null"
	NodeList        NodeType = "List"
	NodeDictionary  NodeType = "Dictionary"
	NodeBinaryOp    NodeType = "BinaryOp"
	NodeUnaryOp     NodeType = "UnaryOp"
	NodeVarDeclare  NodeType = "VarDeclare"
	NodeVarAssign   NodeType = "VarAssign"
	NodeVarAccess   NodeType = "VarAccess"
	NodeCall        NodeType = "Call"
	NodeIndex       NodeType = "Index"
	NodeChain       NodeType = "Chain"
	NodeTaskDefine  NodeType = "TaskDefine"
	NodeClassDefine NodeType = "ClassDefine"
	NodeEnumDefine  NodeType = "EnumDefine"
	NodeReturn      NodeType = "Return"
	NodeContinue    NodeType = "Continue"
	NodeBreak       NodeType = "Break"
	NodeImport      NodeType = "Import"
	NodeExternal    NodeType = "External"
	NodeNative      NodeType = "Native"
	NodeTryCatch    NodeType = "TryCatch"
	NodeFor         NodeType = "For"
	NodeWhile       NodeType = "While"
	NodeCondition   NodeType = "Condition"
)

// Node is implemented by every syntax tree node.  Nodes are immutable once
// constructed.
type Node interface {
	NodeType() NodeType
	Start() *report.Position
	End() *report.Position
}

type nodeImpl struct {
	Type  NodeType
	start *report.Position
	end   *report.Position
}

func newNodeImpl(kind NodeType, start, end *report.Position) nodeImpl {
	return nodeImpl{Type: kind, start: start, end: end}
}

func (n nodeImpl) NodeType() NodeType      { return n.Type }
func (n nodeImpl) Start() *report.Position { return n.start }
func (n nodeImpl) End() *report.Position   { return n.end }

// Access is embedded by nodes that may continue a member chain.  Next is
// evaluated against the value of the embedding node.  Safe marks a link that
// was reached through `?.`: it yields null when its receiver is null.
type Access struct {
	Next Node
	Safe bool
}

// Link returns the access fields of node, if it has any.
func Link(node Node) (Access, bool) {
	switch n := node.(type) {
	case *VarAccessNode:
		return n.Access, true
	case *VarAssignNode:
		return n.Access, true
	case *CallNode:
		return n.Access, true
	case *IndexNode:
		return n.Access, true
	case *ChainNode:
		return n.Access, true
	}
	return Access{}, false
}

// Program

type ProgramNode struct {
	nodeImpl

	Statements []Node
}

func NewProgram(statements []Node, start, end *report.Position) *ProgramNode {
	return &ProgramNode{nodeImpl: newNodeImpl(NodeProgram, start, end), Statements: statements}
}

// Literals

type NumberNode struct {
	nodeImpl

	Token lexer.Token
}

func NewNumber(tok lexer.Token) *NumberNode {
	return &NumberNode{nodeImpl: newNodeImpl(NodeNumber, tok.Start, tok.End), Token: tok}
}

type StringNode struct {
	nodeImpl

	Value string
}

func NewString(tok lexer.Token) *StringNode {
	return &StringNode{nodeImpl: newNodeImpl(NodeString, tok.Start, tok.End), Value: tok.Value}
}

type BooleanNode struct {
	nodeImpl

	Value bool
}

func NewBoolean(value bool, start, end *report.Position) *BooleanNode {
	return &BooleanNode{nodeImpl: newNodeImpl(NodeBoolean, start, end), Value: value}
}

type NullNode struct {
	nodeImpl
}

func NewNull(start, end *report.Position) *NullNode {
	return &NullNode{nodeImpl: newNodeImpl(NodeNull, start, end)}
}

type ListNode struct {
	nodeImpl

	Elements []Node
}

func NewList(elements []Node, start, end *report.Position) *ListNode {
	return &ListNode{nodeImpl: newNodeImpl(NodeList, start, end), Elements: elements}
}

// DictionaryEntry is a single key/value pair of a dictionary literal.
type DictionaryEntry struct {
	Key   Node
	Value Node
}

type DictionaryNode struct {
	nodeImpl

	Entries []DictionaryEntry
}

func NewDictionary(entries []DictionaryEntry, start, end *report.Position) *DictionaryNode {
	return &DictionaryNode{nodeImpl: newNodeImpl(NodeDictionary, start, end), Entries: entries}
}

// Operators

type BinaryOpNode struct {
	nodeImpl

	Left     Node
	Operator lexer.Token
	Right    Node
}

func NewBinaryOp(left Node, op lexer.Token, right Node) *BinaryOpNode {
	return &BinaryOpNode{nodeImpl: newNodeImpl(NodeBinaryOp, left.Start(), right.End()), Left: left, Operator: op, Right: right}
}

type UnaryOpNode struct {
	nodeImpl

	Operator lexer.Token
	Operand  Node
}

func NewUnaryOp(op lexer.Token, operand Node) *UnaryOpNode {
	return &UnaryOpNode{nodeImpl: newNodeImpl(NodeUnaryOp, op.Start, operand.End()), Operator: op, Operand: operand}
}

// Variables

type VarDeclareNode struct {
	nodeImpl

	Name      string
	Type      string
	Value     Node
	Immutable bool
}

func NewVarDeclare(name, typeName string, value Node, immutable bool, start *report.Position) *VarDeclareNode {
	return &VarDeclareNode{nodeImpl: newNodeImpl(NodeVarDeclare, start, value.End()), Name: name, Type: typeName, Value: value, Immutable: immutable}
}

// VarAssignNode rebinds an existing name.  Operator is one of `=`, `+=`,
// `-=`, `*=`, `/=`, `++`, `--`; Value is nil for the increment forms.
type VarAssignNode struct {
	nodeImpl
	Access

	Name     string
	Operator lexer.Kind
	Value    Node
}

func NewVarAssign(name string, op lexer.Kind, value Node, access Access, start, end *report.Position) *VarAssignNode {
	return &VarAssignNode{nodeImpl: newNodeImpl(NodeVarAssign, start, end), Access: access, Name: name, Operator: op, Value: value}
}

type VarAccessNode struct {
	nodeImpl
	Access

	Name string
}

func NewVarAccess(tok lexer.Token, access Access) *VarAccessNode {
	return &VarAccessNode{nodeImpl: newNodeImpl(NodeVarAccess, tok.Start, tok.End), Access: access, Name: tok.Value}
}

// Access chains

type CallNode struct {
	nodeImpl
	Access

	Callee Node
	Args   []Node
}

func NewCall(callee Node, args []Node, access Access, end *report.Position) *CallNode {
	return &CallNode{nodeImpl: newNodeImpl(NodeCall, callee.Start(), end), Access: access, Callee: callee, Args: args}
}

type IndexNode struct {
	nodeImpl
	Access

	Target Node
	Index  Node
}

func NewIndex(target, index Node, access Access, end *report.Position) *IndexNode {
	return &IndexNode{nodeImpl: newNodeImpl(NodeIndex, target.Start(), end), Access: access, Target: target, Index: index}
}

// ChainNode carries member links after a root that is not itself an access
// node, such as a literal or a parenthesised expression.
type ChainNode struct {
	nodeImpl
	Access

	Root Node
}

func NewChain(root Node, access Access) *ChainNode {
	return &ChainNode{nodeImpl: newNodeImpl(NodeChain, root.Start(), root.End()), Access: access, Root: root}
}
