package ast

import "github.com/SpritzLanguage/Spritz-sub000/pkg/report"

// Definitions

// TaskArg is a declared parameter.  Type is empty when unannotated.
type TaskArg struct {
	Name  string
	Type  string
	Start *report.Position
	End   *report.Position
}

// TaskDefineNode defines a task.  Name is empty for anonymous tasks.  Body
// is a *ProgramNode unless ExpressionBody is set, in which case it is the
// single expression whose value is returned.
type TaskDefineNode struct {
	nodeImpl

	Name           string
	ReturnType     string
	Args           []TaskArg
	Body           Node
	ExpressionBody bool
}

func NewTaskDefine(name, returnType string, args []TaskArg, body Node, expressionBody bool, start *report.Position) *TaskDefineNode {
	return &TaskDefineNode{
		nodeImpl:       newNodeImpl(NodeTaskDefine, start, body.End()),
		Name:           name,
		ReturnType:     returnType,
		Args:           args,
		Body:           body,
		ExpressionBody: expressionBody,
	}
}

// ClassDefineNode defines a class, or a container when Container is set.
type ClassDefineNode struct {
	nodeImpl

	Name      string
	Args      []TaskArg
	Body      *ProgramNode
	Container bool
}

func NewClassDefine(name string, args []TaskArg, body *ProgramNode, container bool, start *report.Position) *ClassDefineNode {
	return &ClassDefineNode{nodeImpl: newNodeImpl(NodeClassDefine, start, body.End()), Name: name, Args: args, Body: body, Container: container}
}

type EnumDefineNode struct {
	nodeImpl

	Name    string
	Members []string
}

func NewEnumDefine(name string, members []string, start, end *report.Position) *EnumDefineNode {
	return &EnumDefineNode{nodeImpl: newNodeImpl(NodeEnumDefine, start, end), Name: name, Members: members}
}

// NativeNode declares a task whose implementation is supplied by the host.
type NativeNode struct {
	nodeImpl

	Name       string
	ReturnType string
	Args       []TaskArg
}

func NewNative(name, returnType string, args []TaskArg, start, end *report.Position) *NativeNode {
	return &NativeNode{nodeImpl: newNodeImpl(NodeNative, start, end), Name: name, ReturnType: returnType, Args: args}
}

// Statements

type ReturnNode struct {
	nodeImpl

	Value Node
}

func NewReturn(value Node, start, end *report.Position) *ReturnNode {
	return &ReturnNode{nodeImpl: newNodeImpl(NodeReturn, start, end), Value: value}
}

type ContinueNode struct {
	nodeImpl
}

func NewContinue(start, end *report.Position) *ContinueNode {
	return &ContinueNode{nodeImpl: newNodeImpl(NodeContinue, start, end)}
}

type BreakNode struct {
	nodeImpl
}

func NewBreak(start, end *report.Position) *BreakNode {
	return &BreakNode{nodeImpl: newNodeImpl(NodeBreak, start, end)}
}

// ImportNode loads another source unit.  Path holds the dotted segments, or
// a single element for a quoted path.
type ImportNode struct {
	nodeImpl

	Path  []string
	Alias string
}

func NewImport(path []string, alias string, start, end *report.Position) *ImportNode {
	return &ImportNode{nodeImpl: newNodeImpl(NodeImport, start, end), Path: path, Alias: alias}
}

type ExternalNode struct {
	nodeImpl

	Name string
}

func NewExternal(name string, start, end *report.Position) *ExternalNode {
	return &ExternalNode{nodeImpl: newNodeImpl(NodeExternal, start, end), Name: name}
}

// TryCatchNode runs Body and, on a runtime error, binds it to ErrorName (if
// given) and runs Catch.
type TryCatchNode struct {
	nodeImpl

	Body      *ProgramNode
	ErrorName string
	Catch     *ProgramNode
}

func NewTryCatch(body *ProgramNode, errorName string, catch *ProgramNode, start *report.Position) *TryCatchNode {
	return &TryCatchNode{nodeImpl: newNodeImpl(NodeTryCatch, start, catch.End()), Body: body, ErrorName: errorName, Catch: catch}
}

type ForNode struct {
	nodeImpl

	Variable string
	Iterable Node
	Body     *ProgramNode
}

func NewFor(variable string, iterable Node, body *ProgramNode, start *report.Position) *ForNode {
	return &ForNode{nodeImpl: newNodeImpl(NodeFor, start, body.End()), Variable: variable, Iterable: iterable, Body: body}
}

type WhileNode struct {
	nodeImpl

	Condition Node
	Body      *ProgramNode
}

func NewWhile(condition Node, body *ProgramNode, start *report.Position) *WhileNode {
	return &WhileNode{nodeImpl: newNodeImpl(NodeWhile, start, body.End()), Condition: condition, Body: body}
}

// ConditionCase is one `if` or `elif` arm.
type ConditionCase struct {
	Condition Node
	Body      *ProgramNode
}

type ConditionNode struct {
	nodeImpl

	Cases []ConditionCase
	Else  *ProgramNode
}

func NewCondition(cases []ConditionCase, elseBody *ProgramNode, start, end *report.Position) *ConditionNode {
	return &ConditionNode{nodeImpl: newNodeImpl(NodeCondition, start, end), Cases: cases, Else: elseBody}
}
