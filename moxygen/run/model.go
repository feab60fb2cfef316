package run

import (
	"errors"
	"fmt"
	"go/types"
	"slices"
	"strconv"
	"strings"
)

// mockModel is everything the template needs to render one substitute.
type mockModel struct {
	PkgName    string
	TypeName   string
	MockName   string
	Interface  bool
	Imports    []importSpec
	Methods    []methodModel
}

type importSpec struct {
	Name string
	Path string
}

type methodModel struct {
	Name     string
	Params   []paramModel
	Results  []string
	Variadic bool
}

type paramModel struct {
	Name string
	Type string
}

// Signature renders the parameter list of the generated method.
func (m methodModel) Signature() string {
	parts := make([]string, len(m.Params))

	for i, p := range m.Params {
		typ := p.Type
		if m.Variadic && i == len(m.Params)-1 {
			typ = "..." + strings.TrimPrefix(typ, "[]")
		}

		parts[i] = p.Name + " " + typ
	}

	return strings.Join(parts, ", ")
}

// ResultList renders the result list of the generated method.
func (m methodModel) ResultList() string {
	switch len(m.Results) {
	case 0:
		return ""
	case 1:
		return " " + m.Results[0]
	default:
		return " (" + strings.Join(m.Results, ", ") + ")"
	}
}

// Args renders the arguments forwarded to the proxy.
func (m methodModel) Args() string {
	if len(m.Params) == 0 {
		return ""
	}

	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Name
	}

	return ", " + strings.Join(names, ", ")
}

// ResultNames renders the returned variables.
func (m methodModel) ResultNames() string {
	names := make([]string, len(m.Results))
	for i := range m.Results {
		names[i] = resultName(i)
	}

	return strings.Join(names, ", ")
}

// buildModel describes the named type called typeName in pkg.
func buildModel(pkg *types.Package, typeName, mockName string) (*mockModel, error) {
	obj := pkg.Scope().Lookup(typeName)
	if obj == nil {
		return nil, fmt.Errorf("%w: %s in package %s", errTypeNotFound, typeName, pkg.Path())
	}

	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a named type", errUnsupportedType, typeName)
	}

	if named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("%w: %s is generic", errUnsupportedType, typeName)
	}

	if mockName == "" {
		mockName = typeName + "Mock"
	}

	imports := newImportSet(pkg)
	model := &mockModel{PkgName: pkg.Name(), TypeName: typeName, MockName: mockName}

	var (
		methods []*types.Func
		err     error
	)

	switch underlying := named.Underlying().(type) {
	case *types.Interface:
		model.Interface = true
		methods, err = interfaceMethods(typeName, underlying)
	case *types.Struct:
		methods, err = structMethods(typeName, named)
	default:
		err = fmt.Errorf("%w: %s is a %T", errUnsupportedType, typeName, underlying)
	}

	if err != nil {
		return nil, err
	}

	for _, fn := range methods {
		sig, _ := fn.Type().(*types.Signature)
		model.Methods = append(model.Methods, buildMethod(fn.Name(), sig, imports))
	}

	model.Imports = imports.specs()

	return model, nil
}

func interfaceMethods(typeName string, iface *types.Interface) ([]*types.Func, error) {
	if iface.NumMethods() == 0 {
		return nil, fmt.Errorf("%w: interface %s has no methods", errUnsupportedType, typeName)
	}

	methods := make([]*types.Func, 0, iface.NumMethods())

	for i := range iface.NumMethods() {
		fn := iface.Method(i)
		if !fn.Exported() {
			return nil, fmt.Errorf("%w: interface %s has unexported method %s", errUnsupportedType, typeName, fn.Name())
		}

		methods = append(methods, fn)
	}

	return methods, nil
}

func structMethods(typeName string, named *types.Named) ([]*types.Func, error) {
	set := types.NewMethodSet(types.NewPointer(named))

	methods := make([]*types.Func, 0, set.Len())

	for i := range set.Len() {
		fn, _ := set.At(i).Obj().(*types.Func)
		if fn == nil || !fn.Exported() {
			continue
		}

		methods = append(methods, fn)
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: struct %s has no exported methods", errUnsupportedType, typeName)
	}

	slices.SortFunc(methods, func(a, b *types.Func) int { return strings.Compare(a.Name(), b.Name()) })

	return methods, nil
}

func buildMethod(name string, sig *types.Signature, imports *importSet) methodModel {
	method := methodModel{Name: name, Variadic: sig.Variadic()}
	taken := map[string]bool{receiverName: true, outName: true}

	for i := range sig.Results().Len() {
		taken[resultName(i)] = true
		method.Results = append(method.Results, imports.typeString(sig.Results().At(i).Type()))
	}

	for i := range sig.Params().Len() {
		param := sig.Params().At(i)

		paramName := param.Name()
		if paramName == "" || paramName == "_" || taken[paramName] {
			paramName = "arg" + strconv.Itoa(i)
		}

		taken[paramName] = true
		method.Params = append(method.Params, paramModel{Name: paramName, Type: imports.typeString(param.Type())})
	}

	return method
}

func resultName(i int) string {
	return "r" + strconv.Itoa(i)
}

// importSet qualifies type names relative to the package being generated
// into, collecting the imports that requires.
type importSet struct {
	self   *types.Package
	byPath map[string]string
	used   map[string]bool
}

func newImportSet(self *types.Package) *importSet {
	return &importSet{
		self:   self,
		byPath: map[string]string{},
		used:   map[string]bool{moxyAlias: true, self.Name(): true},
	}
}

func (s *importSet) qualifier(pkg *types.Package) string {
	if pkg == nil || pkg.Path() == s.self.Path() {
		return ""
	}

	if name, ok := s.byPath[pkg.Path()]; ok {
		return name
	}

	name := pkg.Name()
	for i := 2; s.used[name]; i++ {
		name = pkg.Name() + strconv.Itoa(i)
	}

	s.used[name] = true
	s.byPath[pkg.Path()] = name

	return name
}

func (s *importSet) typeString(t types.Type) string {
	return types.TypeString(t, s.qualifier)
}

func (s *importSet) specs() []importSpec {
	specs := make([]importSpec, 0, len(s.byPath))
	for path, name := range s.byPath {
		spec := importSpec{Path: path}
		if name != lastSegment(path) {
			spec.Name = name
		}

		specs = append(specs, spec)
	}

	slices.SortFunc(specs, func(a, b importSpec) int { return strings.Compare(a.Path, b.Path) })

	return specs
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}

	return path
}

// unexported constants.
const (
	moxyAlias    = "moxy"
	outName      = "out"
	receiverName = "m"
)

// unexported variables.
var (
	errTypeNotFound    = errors.New("type not found")
	errUnsupportedType = errors.New("unsupported type")
)
