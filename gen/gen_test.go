package gen_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/wkalt/fbc/compile"
	"github.com/wkalt/fbc/dynamic"
	"github.com/wkalt/fbc/fbs"
	"github.com/wkalt/fbc/flatbuf"
	"github.com/wkalt/fbc/gen"
	"github.com/wkalt/fbc/ir"
)

const monsterSchema = `
	namespace MyGame.Sample;

	enum Color : byte { Red, Green, Blue = 5 }

	union Equipment { Weapon }

	struct Vec3 { x: float; y: float; z: float; }

	table Monster {
		pos: Vec3;
		mana: short = 150;
		hp: short = 100;
		name: string;
		inventory: [ubyte];
		color: Color = Blue;
		weapons: [Weapon];
		equipped: Equipment;
		path: [Vec3];
	}

	table Weapon { name: string; damage: short; }

	rpc_service MonsterStorage {
		Store(Monster): Monster;
		Retrieve(Monster): Monster (streaming: "server");
	}

	root_type Monster;
	file_identifier "MONS";
`

func compileSchema(t *testing.T, source string) *ir.Schema {
	t.Helper()
	parsed, err := fbs.Parse("test.fbs", source)
	require.NoError(t, err)
	schema, err := compile.Compile(compile.Unit{Name: "test.fbs", Schema: parsed})
	require.NoError(t, err)
	return schema
}

func generateFiles(t *testing.T, target, source string, opts gen.Options) []gen.File {
	t.Helper()
	schema := compileSchema(t, source)
	tgt, err := gen.Lookup(target)
	require.NoError(t, err)
	files, err := tgt.Generate(schema, opts)
	require.NoError(t, err)
	return files
}

func generate(t *testing.T, target string, source string) string {
	t.Helper()
	files := generateFiles(t, target, source, gen.Options{Package: "sample"})
	require.Len(t, files, 1)
	return string(files[0].Content)
}

func TestLookup(t *testing.T) {
	require.Equal(t, []string{"go", "json-ir"}, gen.Names())
	_, err := gen.Lookup("fortran")
	require.ErrorContains(t, err, "unknown target")
}

func TestGoTargetMonster(t *testing.T) {
	files := generateFiles(t, "go", monsterSchema, gen.Options{})
	require.Len(t, files, 1)
	require.Equal(t, "MyGame/Sample/Sample_generated.go", files[0].Path)
	src := string(files[0].Content)

	// The output went through go/format, so reaching here means it parses.
	for _, want := range []string{
		"package Sample",
		"type Color int8",
		"ColorRed Color = 0",
		"ColorBlue Color = 5",
		"func (v Color) String() string",
		"type EquipmentType uint8",
		"EquipmentTypeNONE EquipmentType = 0",
		"EquipmentTypeWeapon EquipmentType = 1",
		"type Vec3 struct",
		"func CreateVec3(b *flatbuf.Builder, x float32, y float32, z float32) flatbuf.UOffset",
		"type Monster struct",
		"func GetRootAsMonster(buf []byte) *Monster",
		"func (rcv *Monster) Hp() int16",
		"func (rcv *Monster) Color() Color",
		"func (rcv *Monster) EquippedType() EquipmentType",
		"func (rcv *Monster) Equipped(obj *flatbuf.Table) bool",
		"func (rcv *Monster) Weapons(obj *Weapon, j int) bool",
		"func (rcv *Monster) InventoryBytes() []byte",
		"func (rcv *Monster) Path(obj *Vec3, j int) bool",
		"func MonsterStart(b *flatbuf.Builder)",
		"func MonsterAddHp(b *flatbuf.Builder, v int16)",
		"func MonsterAddEquippedType(b *flatbuf.Builder, v EquipmentType)",
		"func MonsterStartWeaponsVector(b *flatbuf.Builder, numElems int)",
		"func MonsterEnd(b *flatbuf.Builder) flatbuf.UOffset",
		`const FileIdentifier = "MONS"`,
		"func FinishMonsterBuffer(b *flatbuf.Builder, root flatbuf.UOffset)",
		"type MonsterStorageClient struct",
		"func (c *MonsterStorageClient) Store(ctx context.Context, req []byte) (*Monster, error)",
		"func (c *MonsterStorageClient) Retrieve(ctx context.Context, req []byte) (*MonsterStorageRetrieveStream, error)",
		"type MonsterStorageServer interface",
		"func RegisterMonsterStorage(srv *rpc.Server, impl MonsterStorageServer)",
	} {
		require.Contains(t, src, want)
	}

	// Defaults are baked into accessors and builder helpers.
	require.Contains(t, src, "Int16Slot(monsterVTHp, 100)")
	require.Contains(t, src, "Int16Slot(monsterVTMana, 150)")
	require.Contains(t, src, "Int8Slot(monsterVTColor, 5)")
}

func TestGoTargetSlotNumbers(t *testing.T) {
	src := generate(t, "go", `
		table A {}
		union U { A }
		table T { a: int; u: U; b: string; }
	`)
	// Field a at slot 0 (vtable byte 4), union discriminant at slot 1
	// (byte 6), value at slot 2 (byte 8), b at slot 3 (byte 10).
	require.Contains(t, src, "tVTA flatbuf.VOffset = 4")
	require.Contains(t, src, "tVTUType flatbuf.VOffset = 6")
	require.Contains(t, src, "tVTU flatbuf.VOffset = 8")
	require.Contains(t, src, "tVTB flatbuf.VOffset = 10")
	require.Contains(t, src, "b.StartObject(4)")
}

func TestGoTargetDeprecatedFieldsOmitted(t *testing.T) {
	src := generate(t, "go", `table T { old: int (deprecated); fresh: int; }`)
	require.NotContains(t, src, "func (rcv *T) Old()")
	require.NotContains(t, src, "func TAddOld(")
	require.Contains(t, src, "func (rcv *T) Fresh() int32")
	// Deprecated fields keep their slot; the table still spans both.
	require.Contains(t, src, "b.StartObject(2)")
	require.Contains(t, src, "tVTFresh flatbuf.VOffset = 6")
}

func TestGoTargetPackagePerNamespace(t *testing.T) {
	files := generateFiles(t, "go", `
		namespace A; table Thing { x: int; }
		namespace B; table Thing { y: int; }
		namespace B; table Holder { mine: Thing; theirs: A.Thing; }
	`, gen.Options{Module: "example.com/wire"})
	require.Len(t, files, 2)
	require.Equal(t, "A/A_generated.go", files[0].Path)
	require.Equal(t, "B/B_generated.go", files[1].Path)

	a := string(files[0].Content)
	require.Contains(t, a, "package A")
	require.Contains(t, a, "type Thing struct")

	// Same simple name in both namespaces; the reference across packages is
	// qualified through an aliased import.
	b := string(files[1].Content)
	require.Contains(t, b, "package B")
	require.Contains(t, b, `a "example.com/wire/A"`)
	require.Contains(t, b, "func (rcv *Holder) Mine(obj *Thing) *Thing")
	require.Contains(t, b, "func (rcv *Holder) Theirs(obj *a.Thing) *a.Thing")
}

func TestGoTargetCrossNamespaceRequiresModule(t *testing.T) {
	schema := compileSchema(t, `
		namespace A; table Thing { x: int; }
		namespace B; table Holder { t: A.Thing; }
	`)
	tgt, err := gen.Lookup("go")
	require.NoError(t, err)
	_, err = tgt.Generate(schema, gen.Options{})
	require.ErrorContains(t, err, "set a module import path")
}

func TestGoTargetSnakeCaseFields(t *testing.T) {
	src := generate(t, "go", `table T { max_hit_points: short; }`)
	require.Contains(t, src, "func (rcv *T) MaxHitPoints() int16")
	require.Contains(t, src, "func TAddMaxHitPoints(b *flatbuf.Builder, v int16)")
}

func TestGoTargetRejectsClientStreaming(t *testing.T) {
	schema := compileSchema(t, `
		table Q {}
		rpc_service S { Up(Q): Q (streaming: "client"); }
	`)
	tgt, err := gen.Lookup("go")
	require.NoError(t, err)
	_, err = tgt.Generate(schema, gen.Options{})
	require.ErrorContains(t, err, "streaming is not supported")
}

func TestJSONIRTarget(t *testing.T) {
	out := generate(t, "json-ir", monsterSchema)

	var doc struct {
		Decls []struct {
			Kind      string `json:"kind"`
			Name      string `json:"name"`
			Namespace string `json:"namespace"`
			Synthetic bool   `json:"synthetic"`
		} `json:"decls"`
		Root           int    `json:"root"`
		FileIdentifier string `json:"fileIdentifier"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, "MONS", doc.FileIdentifier)

	kinds := map[string]int{}
	synthetic := 0
	for _, d := range doc.Decls {
		kinds[d.Kind]++
		require.Equal(t, "MyGame.Sample", d.Namespace)
		if d.Synthetic {
			synthetic++
			require.Equal(t, "EquipmentType", d.Name)
		}
	}
	require.Equal(t, 2, kinds["enum"])
	require.Equal(t, 1, kinds["union"])
	require.Equal(t, 1, kinds["struct"])
	require.Equal(t, 2, kinds["table"])
	require.Equal(t, 1, kinds["rpc_service"])
	require.Equal(t, 1, synthetic)
	require.Equal(t, "Monster", doc.Decls[doc.Root].Name)
}

// TestGeneratedBuildersMatchTranscoder pins the emitted builder helpers to the
// exact runtime call sequence, replays that sequence, and checks the dynamic
// transcoder agrees about what the resulting buffer says.
func TestGeneratedBuildersMatchTranscoder(t *testing.T) {
	source := `
		enum Color : byte { Red, Green = 2, Blue }
		table Weapon { name: string; damage: short = 10; }
		table Monster { hp: short = 100; name: string; color: Color = Green; weapon: Weapon; }
		root_type Monster;
	`
	schema := compileSchema(t, source)
	tgt, err := gen.Lookup("go")
	require.NoError(t, err)
	files, err := tgt.Generate(schema, gen.Options{Package: "sample"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	src := string(files[0].Content)

	// Each helper body is the one runtime call replayed below.
	for _, want := range []string{
		"func WeaponStart(b *flatbuf.Builder) {\n\tb.StartObject(2)\n}",
		"func WeaponAddName(b *flatbuf.Builder, v flatbuf.UOffset) {\n\tb.PrependUOffsetSlot(0, v)\n}",
		"func WeaponAddDamage(b *flatbuf.Builder, v int16) {\n\tb.PrependInt16Slot(1, v, 10)\n}",
		"func MonsterStart(b *flatbuf.Builder) {\n\tb.StartObject(4)\n}",
		"func MonsterAddHp(b *flatbuf.Builder, v int16) {\n\tb.PrependInt16Slot(0, v, 100)\n}",
		"func MonsterAddName(b *flatbuf.Builder, v flatbuf.UOffset) {\n\tb.PrependUOffsetSlot(1, v)\n}",
		"func MonsterAddColor(b *flatbuf.Builder, v Color) {\n\tb.PrependInt8Slot(2, int8(v), 2)\n}",
		"func MonsterAddWeapon(b *flatbuf.Builder, v flatbuf.UOffset) {\n\tb.PrependUOffsetSlot(3, v)\n}",
		"func FinishMonsterBuffer(b *flatbuf.Builder, root flatbuf.UOffset) {\n\tb.Finish(root)\n}",
	} {
		require.Contains(t, src, want)
	}

	b := flatbuf.NewBuilder(256)
	wname := b.CreateString("axe")
	b.StartObject(2)
	b.PrependUOffsetSlot(0, wname)
	b.PrependInt16Slot(1, 25, 10)
	weapon := b.EndObject()

	mname := b.CreateString("orc")
	b.StartObject(4)
	b.PrependInt16Slot(0, 300, 100)
	b.PrependUOffsetSlot(1, mname)
	b.PrependInt8Slot(2, 3, 2) // Blue
	b.PrependUOffsetSlot(3, weapon)
	root := b.EndObject()
	b.Finish(root)

	transcoder, err := dynamic.NewTranscoder(schema)
	require.NoError(t, err)
	out, err := transcoder.Transcode(b.FinishedBytes())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	require.Equal(t, map[string]any{
		"hp":    float64(300),
		"name":  "orc",
		"color": "Blue",
		"weapon": map[string]any{
			"name":   "axe",
			"damage": float64(25),
		},
	}, got)
}
