package fbs_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/fbc/fbs"
)

const monsterSchema = `
include "weapons.fbs";

namespace MyGame.Sample;

attribute "priv";

/// Drive modes for a monster.
enum Color : ubyte {
  Red,
  Green = 2,
  Blue,
}

union Equipment {
  Weapon,
  lunchbox: Lunchbox,
}

struct Vec3 {
  x:float;
  y:float;
  z:float;
}

/// The main monster record.
table Monster (priv) {
  pos:Vec3;
  mana:short = 150;
  hp:short = 100 (id: 2);
  /// The monster's name.
  name:string (required, id: 0);
  inventory:[ubyte] (id: 1);
  color:Color = Blue (id: 3);
  equipped:Equipment (id: 5);
}

table Weapon {
  name:string;
  damage:short;
}

table Lunchbox {
  calories:int = -20;
}

namespace MyGame.Rpc;

table HelloReply { message:string; }
table ManyHellosRequest { name:string; num_greetings:int; }

rpc_service Greeter {
  SayHello(ManyHellosRequest): HelloReply;
  SayManyHellos(ManyHellosRequest): HelloReply (streaming: "server");
}

namespace MyGame.Sample;

root_type Monster;
file_identifier "MONS";
file_extension "mon";
`

func TestFormatRoundTrip(t *testing.T) {
	cases := []struct {
		assertion string
		input     string
	}{
		{"monster schema", monsterSchema},
		{"doc comments", "/// A thing.\ntable T {\n  /// Field doc.\n  x:int = 3;\n}"},
		{"empty enum body", "enum E : int {}"},
		{"metadata values", `table T { x:int (hash: "fnv1a", priority: 2, mode: fast); }`},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			first, err := fbs.Parse("test.fbs", c.input)
			require.NoError(t, err)
			printed := fbs.Format(first)
			second, err := fbs.Parse("test.fbs", printed)
			require.NoError(t, err, "canonical form failed to reparse:\n%s", printed)
			require.Equal(t, stripped(first), stripped(second))
		})
	}
}

func TestFormatIsStable(t *testing.T) {
	first, err := fbs.Parse("test.fbs", monsterSchema)
	require.NoError(t, err)
	printed := fbs.Format(first)
	second, err := fbs.Parse("test.fbs", printed)
	require.NoError(t, err)
	require.Equal(t, printed, fbs.Format(second))
}
