package syntax

// Kind tags every token and node in a tree. Token kinds sort before node kinds.
type Kind uint16

// Token kinds.
const (
	KindNone Kind = iota

	IdentifierToken
	NumericLiteralToken
	StringLiteralToken
	CharacterLiteralToken
	OpenParenToken
	CloseParenToken
	OpenBraceToken
	CloseBraceToken
	OpenBracketToken
	CloseBracketToken
	LessThanToken
	GreaterThanToken
	CommaToken
	SemicolonToken
	DotToken
	ColonToken
	QuestionToken
	EqualsToken
	PlusToken
	MinusToken
	AsteriskToken
	SlashToken
	PercentToken
	AmpersandToken
	BarToken
	CaretToken
	LessThanLessThanToken
	GreaterThanGreaterThanToken
	QuestionQuestionToken
	EqualsEqualsToken
	ExclamationEqualsToken
	AmpersandAmpersandToken
	BarBarToken
	ExclamationToken
	PlusEqualsToken
	MinusEqualsToken
	AsteriskEqualsToken
	SlashEqualsToken
	PercentEqualsToken
	AmpersandEqualsToken
	BarEqualsToken
	CaretEqualsToken
	LessThanLessThanEqualsToken
	GreaterThanGreaterThanEqualsToken
	QuestionQuestionEqualsToken

	UsingKeyword
	NamespaceKeyword
	ClassKeyword
	StructKeyword
	InterfaceKeyword
	EnumKeyword
	StaticKeyword
	PublicKeyword
	PrivateKeyword
	ProtectedKeyword
	InternalKeyword
	AbstractKeyword
	SealedKeyword
	PartialKeyword
	ReadOnlyKeyword
	ConstKeyword
	VirtualKeyword
	OverrideKeyword
	AsyncKeyword
	VoidKeyword
	VarKeyword
	NewKeyword
	ReturnKeyword
	IfKeyword
	ElseKeyword
	TrueKeyword
	FalseKeyword
	NullKeyword
	ThisKeyword
	PredefinedTypeKeyword

	UnknownToken
	EndOfFileToken

	lastTokenKind
)

// Node kinds.
const (
	CompilationUnit Kind = iota + lastTokenKind + 1
	NamespaceDeclaration
	UsingDirective
	ClassDeclaration
	StructDeclaration
	InterfaceDeclaration
	EnumDeclaration
	ModifierList
	MethodDeclaration
	ConstructorDeclaration
	FieldDeclaration
	PropertyDeclaration
	AccessorList
	ParameterList
	Parameter
	VariableDeclaration
	VariableDeclarator
	EqualsValueClause
	Block
	ExpressionStatement
	LocalDeclarationStatement
	UsingStatement
	ReturnStatement
	IfStatement
	EmptyStatement
	InvocationExpression
	ArgumentList
	Argument
	AttributeList
	Attribute
	AttributeArgumentList
	AttributeArgument
	IdentifierName
	GenericName
	TypeArgumentList
	QualifiedName
	PredefinedType
	ArrayType
	MemberAccessExpression
	LiteralExpression
	ParenthesizedExpression
	CastExpression
	BinaryExpression
	PrefixUnaryExpression
	ObjectCreationExpression
	ThisExpression
	SimpleAssignmentExpression
	AddAssignmentExpression
	SubtractAssignmentExpression
	MultiplyAssignmentExpression
	DivideAssignmentExpression
	ModuloAssignmentExpression
	AndAssignmentExpression
	OrAssignmentExpression
	ExclusiveOrAssignmentExpression
	LeftShiftAssignmentExpression
	RightShiftAssignmentExpression
	CoalesceAssignmentExpression
	UnknownNode

	lastNodeKind
)

var kindNames = map[Kind]string{
	KindNone:                          "None",
	IdentifierToken:                   "IdentifierToken",
	NumericLiteralToken:               "NumericLiteralToken",
	StringLiteralToken:                "StringLiteralToken",
	CharacterLiteralToken:             "CharacterLiteralToken",
	OpenParenToken:                    "OpenParenToken",
	CloseParenToken:                   "CloseParenToken",
	OpenBraceToken:                    "OpenBraceToken",
	CloseBraceToken:                   "CloseBraceToken",
	OpenBracketToken:                  "OpenBracketToken",
	CloseBracketToken:                 "CloseBracketToken",
	LessThanToken:                     "LessThanToken",
	GreaterThanToken:                  "GreaterThanToken",
	CommaToken:                        "CommaToken",
	SemicolonToken:                    "SemicolonToken",
	DotToken:                          "DotToken",
	ColonToken:                        "ColonToken",
	QuestionToken:                     "QuestionToken",
	EqualsToken:                       "EqualsToken",
	PlusToken:                         "PlusToken",
	MinusToken:                        "MinusToken",
	AsteriskToken:                     "AsteriskToken",
	SlashToken:                        "SlashToken",
	PercentToken:                      "PercentToken",
	AmpersandToken:                    "AmpersandToken",
	BarToken:                          "BarToken",
	CaretToken:                        "CaretToken",
	LessThanLessThanToken:             "LessThanLessThanToken",
	GreaterThanGreaterThanToken:       "GreaterThanGreaterThanToken",
	QuestionQuestionToken:             "QuestionQuestionToken",
	EqualsEqualsToken:                 "EqualsEqualsToken",
	ExclamationEqualsToken:            "ExclamationEqualsToken",
	AmpersandAmpersandToken:           "AmpersandAmpersandToken",
	BarBarToken:                       "BarBarToken",
	ExclamationToken:                  "ExclamationToken",
	PlusEqualsToken:                   "PlusEqualsToken",
	MinusEqualsToken:                  "MinusEqualsToken",
	AsteriskEqualsToken:               "AsteriskEqualsToken",
	SlashEqualsToken:                  "SlashEqualsToken",
	PercentEqualsToken:                "PercentEqualsToken",
	AmpersandEqualsToken:              "AmpersandEqualsToken",
	BarEqualsToken:                    "BarEqualsToken",
	CaretEqualsToken:                  "CaretEqualsToken",
	LessThanLessThanEqualsToken:       "LessThanLessThanEqualsToken",
	GreaterThanGreaterThanEqualsToken: "GreaterThanGreaterThanEqualsToken",
	QuestionQuestionEqualsToken:       "QuestionQuestionEqualsToken",
	UsingKeyword:                      "UsingKeyword",
	NamespaceKeyword:                  "NamespaceKeyword",
	ClassKeyword:                      "ClassKeyword",
	StructKeyword:                     "StructKeyword",
	InterfaceKeyword:                  "InterfaceKeyword",
	EnumKeyword:                       "EnumKeyword",
	StaticKeyword:                     "StaticKeyword",
	PublicKeyword:                     "PublicKeyword",
	PrivateKeyword:                    "PrivateKeyword",
	ProtectedKeyword:                  "ProtectedKeyword",
	InternalKeyword:                   "InternalKeyword",
	AbstractKeyword:                   "AbstractKeyword",
	SealedKeyword:                     "SealedKeyword",
	PartialKeyword:                    "PartialKeyword",
	ReadOnlyKeyword:                   "ReadOnlyKeyword",
	ConstKeyword:                      "ConstKeyword",
	VirtualKeyword:                    "VirtualKeyword",
	OverrideKeyword:                   "OverrideKeyword",
	AsyncKeyword:                      "AsyncKeyword",
	VoidKeyword:                       "VoidKeyword",
	VarKeyword:                        "VarKeyword",
	NewKeyword:                        "NewKeyword",
	ReturnKeyword:                     "ReturnKeyword",
	IfKeyword:                         "IfKeyword",
	ElseKeyword:                       "ElseKeyword",
	TrueKeyword:                       "TrueKeyword",
	FalseKeyword:                      "FalseKeyword",
	NullKeyword:                       "NullKeyword",
	ThisKeyword:                       "ThisKeyword",
	PredefinedTypeKeyword:             "PredefinedTypeKeyword",
	UnknownToken:                      "UnknownToken",
	EndOfFileToken:                    "EndOfFileToken",
	CompilationUnit:                   "CompilationUnit",
	NamespaceDeclaration:              "NamespaceDeclaration",
	UsingDirective:                    "UsingDirective",
	ClassDeclaration:                  "ClassDeclaration",
	StructDeclaration:                 "StructDeclaration",
	InterfaceDeclaration:              "InterfaceDeclaration",
	EnumDeclaration:                   "EnumDeclaration",
	ModifierList:                      "ModifierList",
	MethodDeclaration:                 "MethodDeclaration",
	ConstructorDeclaration:            "ConstructorDeclaration",
	FieldDeclaration:                  "FieldDeclaration",
	PropertyDeclaration:               "PropertyDeclaration",
	AccessorList:                      "AccessorList",
	ParameterList:                     "ParameterList",
	Parameter:                         "Parameter",
	VariableDeclaration:               "VariableDeclaration",
	VariableDeclarator:                "VariableDeclarator",
	EqualsValueClause:                 "EqualsValueClause",
	Block:                             "Block",
	ExpressionStatement:               "ExpressionStatement",
	LocalDeclarationStatement:         "LocalDeclarationStatement",
	UsingStatement:                    "UsingStatement",
	ReturnStatement:                   "ReturnStatement",
	IfStatement:                       "IfStatement",
	EmptyStatement:                    "EmptyStatement",
	InvocationExpression:              "InvocationExpression",
	ArgumentList:                      "ArgumentList",
	Argument:                          "Argument",
	AttributeList:                     "AttributeList",
	Attribute:                         "Attribute",
	AttributeArgumentList:             "AttributeArgumentList",
	AttributeArgument:                 "AttributeArgument",
	IdentifierName:                    "IdentifierName",
	GenericName:                       "GenericName",
	TypeArgumentList:                  "TypeArgumentList",
	QualifiedName:                     "QualifiedName",
	PredefinedType:                    "PredefinedType",
	ArrayType:                         "ArrayType",
	MemberAccessExpression:            "MemberAccessExpression",
	LiteralExpression:                 "LiteralExpression",
	ParenthesizedExpression:           "ParenthesizedExpression",
	CastExpression:                    "CastExpression",
	BinaryExpression:                  "BinaryExpression",
	PrefixUnaryExpression:             "PrefixUnaryExpression",
	ObjectCreationExpression:          "ObjectCreationExpression",
	ThisExpression:                    "ThisExpression",
	SimpleAssignmentExpression:        "SimpleAssignmentExpression",
	AddAssignmentExpression:           "AddAssignmentExpression",
	SubtractAssignmentExpression:      "SubtractAssignmentExpression",
	MultiplyAssignmentExpression:      "MultiplyAssignmentExpression",
	DivideAssignmentExpression:        "DivideAssignmentExpression",
	ModuloAssignmentExpression:        "ModuloAssignmentExpression",
	AndAssignmentExpression:           "AndAssignmentExpression",
	OrAssignmentExpression:            "OrAssignmentExpression",
	ExclusiveOrAssignmentExpression:   "ExclusiveOrAssignmentExpression",
	LeftShiftAssignmentExpression:     "LeftShiftAssignmentExpression",
	RightShiftAssignmentExpression:    "RightShiftAssignmentExpression",
	CoalesceAssignmentExpression:      "CoalesceAssignmentExpression",
	UnknownNode:                       "UnknownNode",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "Kind(?)"
}

// IsToken reports whether k is a token kind.
func (k Kind) IsToken() bool {
	return k > KindNone && k < lastTokenKind
}

// IsKeyword reports whether k is a keyword token kind.
func (k Kind) IsKeyword() bool {
	return k >= UsingKeyword && k <= PredefinedTypeKeyword
}

// IsNode reports whether k is a node kind.
func (k Kind) IsNode() bool {
	return k > lastTokenKind && k < lastNodeKind
}

// tokenTexts holds the fixed spelling of punctuation and keyword kinds.
var tokenTexts = map[Kind]string{
	OpenParenToken:                    "(",
	CloseParenToken:                   ")",
	OpenBraceToken:                    "{",
	CloseBraceToken:                   "}",
	OpenBracketToken:                  "[",
	CloseBracketToken:                 "]",
	LessThanToken:                     "<",
	GreaterThanToken:                  ">",
	CommaToken:                        ",",
	SemicolonToken:                    ";",
	DotToken:                          ".",
	ColonToken:                        ":",
	QuestionToken:                     "?",
	EqualsToken:                       "=",
	PlusToken:                         "+",
	MinusToken:                        "-",
	AsteriskToken:                     "*",
	SlashToken:                        "/",
	PercentToken:                      "%",
	AmpersandToken:                    "&",
	BarToken:                          "|",
	CaretToken:                        "^",
	LessThanLessThanToken:             "<<",
	GreaterThanGreaterThanToken:       ">>",
	QuestionQuestionToken:             "??",
	EqualsEqualsToken:                 "==",
	ExclamationEqualsToken:            "!=",
	AmpersandAmpersandToken:           "&&",
	BarBarToken:                       "||",
	ExclamationToken:                  "!",
	PlusEqualsToken:                   "+=",
	MinusEqualsToken:                  "-=",
	AsteriskEqualsToken:               "*=",
	SlashEqualsToken:                  "/=",
	PercentEqualsToken:                "%=",
	AmpersandEqualsToken:              "&=",
	BarEqualsToken:                    "|=",
	CaretEqualsToken:                  "^=",
	LessThanLessThanEqualsToken:       "<<=",
	GreaterThanGreaterThanEqualsToken: ">>=",
	QuestionQuestionEqualsToken:       "??=",
	UsingKeyword:                      "using",
	NamespaceKeyword:                  "namespace",
	ClassKeyword:                      "class",
	StructKeyword:                     "struct",
	InterfaceKeyword:                  "interface",
	EnumKeyword:                       "enum",
	StaticKeyword:                     "static",
	PublicKeyword:                     "public",
	PrivateKeyword:                    "private",
	ProtectedKeyword:                  "protected",
	InternalKeyword:                   "internal",
	AbstractKeyword:                   "abstract",
	SealedKeyword:                     "sealed",
	PartialKeyword:                    "partial",
	ReadOnlyKeyword:                   "readonly",
	ConstKeyword:                      "const",
	VirtualKeyword:                    "virtual",
	OverrideKeyword:                   "override",
	AsyncKeyword:                      "async",
	VoidKeyword:                       "void",
	VarKeyword:                        "var",
	NewKeyword:                        "new",
	ReturnKeyword:                     "return",
	IfKeyword:                         "if",
	ElseKeyword:                       "else",
	TrueKeyword:                       "true",
	FalseKeyword:                      "false",
	NullKeyword:                       "null",
	ThisKeyword:                       "this",
}

// TokenText returns the fixed spelling of a punctuation or keyword kind,
// or "" for kinds whose text varies.
func TokenText(k Kind) string {
	return tokenTexts[k]
}

var textKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(tokenTexts))
	for k, text := range tokenTexts {
		m[text] = k
	}

	return m
}()

// predefinedTypeNames lists the built-in type keywords.
var predefinedTypeNames = map[string]struct{}{
	"bool": {}, "byte": {}, "sbyte": {}, "char": {}, "decimal": {}, "double": {}, "float": {},
	"int": {}, "uint": {}, "long": {}, "ulong": {}, "short": {}, "ushort": {}, "object": {},
	"string": {}, "dynamic": {}, "nint": {}, "nuint": {},
}

// IsPredefinedTypeName reports whether name is a built-in type keyword.
func IsPredefinedTypeName(name string) bool {
	_, ok := predefinedTypeNames[name]

	return ok
}

// KindForText classifies a token spelling. Unknown words are identifiers,
// digits are numeric literals, anything else is UnknownToken.
func KindForText(text string) Kind {
	if k, ok := textKinds[text]; ok {
		return k
	}

	if IsPredefinedTypeName(text) {
		return PredefinedTypeKeyword
	}

	if text == "" {
		return UnknownToken
	}

	switch c := text[0]; {
	case c == '_' || c == '@' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80:
		return IdentifierToken
	case c >= '0' && c <= '9':
		return NumericLiteralToken
	case c == '"' || c == '$':
		return StringLiteralToken
	case c == '\'':
		return CharacterLiteralToken
	default:
		return UnknownToken
	}
}

// compoundAssignmentOperators maps compound assignment node kinds to their
// operator token and the binary operator they expand to.
var compoundAssignmentOperators = map[Kind][2]Kind{
	AddAssignmentExpression:         {PlusEqualsToken, PlusToken},
	SubtractAssignmentExpression:    {MinusEqualsToken, MinusToken},
	MultiplyAssignmentExpression:    {AsteriskEqualsToken, AsteriskToken},
	DivideAssignmentExpression:      {SlashEqualsToken, SlashToken},
	ModuloAssignmentExpression:      {PercentEqualsToken, PercentToken},
	AndAssignmentExpression:         {AmpersandEqualsToken, AmpersandToken},
	OrAssignmentExpression:          {BarEqualsToken, BarToken},
	ExclusiveOrAssignmentExpression: {CaretEqualsToken, CaretToken},
	LeftShiftAssignmentExpression:   {LessThanLessThanEqualsToken, LessThanLessThanToken},
	RightShiftAssignmentExpression:  {GreaterThanGreaterThanEqualsToken, GreaterThanGreaterThanToken},
	CoalesceAssignmentExpression:    {QuestionQuestionEqualsToken, QuestionQuestionToken},
}

// IsCompoundAssignment reports whether k is a compound assignment kind (+=, -=, ...).
func IsCompoundAssignment(k Kind) bool {
	_, ok := compoundAssignmentOperators[k]

	return ok
}

// CompoundAssignmentKinds returns every compound assignment node kind.
func CompoundAssignmentKinds() []Kind {
	return []Kind{
		AddAssignmentExpression, SubtractAssignmentExpression, MultiplyAssignmentExpression,
		DivideAssignmentExpression, ModuloAssignmentExpression, AndAssignmentExpression,
		OrAssignmentExpression, ExclusiveOrAssignmentExpression, LeftShiftAssignmentExpression,
		RightShiftAssignmentExpression, CoalesceAssignmentExpression,
	}
}

// BinaryOperatorFor returns the binary operator a compound assignment expands to.
func BinaryOperatorFor(k Kind) (Kind, bool) {
	ops, ok := compoundAssignmentOperators[k]

	return ops[1], ok
}

// AssignmentKindForOperator maps an assignment operator token to its node kind.
func AssignmentKindForOperator(op Kind) (Kind, bool) {
	if op == EqualsToken {
		return SimpleAssignmentExpression, true
	}

	for kind, ops := range compoundAssignmentOperators {
		if ops[0] == op {
			return kind, true
		}
	}

	return KindNone, false
}

// IsAccessibilityModifier reports whether k is public/private/protected/internal.
func IsAccessibilityModifier(k Kind) bool {
	switch k {
	case PublicKeyword, PrivateKeyword, ProtectedKeyword, InternalKeyword:
		return true
	default:
		return false
	}
}
