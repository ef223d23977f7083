package abletonxml_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"rackscope/internal/abletonxml"
	"rackscope/internal/testsupport"
)

const tree = `<Ableton Creator="Live">
  <Device>
    <Eq8 Id="0"><On><Manual Value="true"/></On><UserName Value="Tone"/></Eq8>
    <Reverb Id="1"><On><Manual Value="false"/></On></Reverb>
  </Device>
  <Other><Eq8 Id="2"/></Other>
  <Text>hello <b/> world</Text>
</Ableton>`

func decodeTree(t *testing.T) *abletonxml.Node {
	t.Helper()
	doc, err := abletonxml.Decode(testsupport.Gzip(t, tree), "tree.adg")
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	return doc.Root
}

func TestNodeNavigation(t *testing.T) {
	root := decodeTree(t)

	if got := root.AttrOr("Creator", ""); got != "Live" {
		t.Fatalf("Creator = %q", got)
	}
	if got := root.AttrOr("Missing", "fallback"); got != "fallback" {
		t.Fatalf("AttrOr fallback = %q", got)
	}
	if on, ok := root.ValueAt("Device/Reverb/On/Manual"); !ok || on != "false" {
		t.Fatalf("ValueAt = %q, %t", on, ok)
	}
	if _, ok := root.ValueAt("Device/Missing/On"); ok {
		t.Fatal("expected missing path to report false")
	}

	var names []string
	for _, c := range root.Child("Device").Children {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"Eq8", "Reverb"}, names); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}

	all := root.FindAll("Eq8")
	if len(all) != 2 {
		t.Fatalf("expected 2 Eq8 elements, got %d", len(all))
	}
	if id, _ := root.Find("Eq8").Attr("Id"); id != "0" {
		t.Fatalf("Find should return the first match in document order, got Id %q", id)
	}
	if got := all[1].Path(); got != "/Ableton/Other/Eq8" {
		t.Fatalf("Path = %q", got)
	}
	if root.FindSelf("Ableton") != root {
		t.Fatal("FindSelf should match the receiver")
	}
	if root.Find("Ableton") != nil {
		t.Fatal("Find must exclude the receiver")
	}

	manual := root.At("Device/Eq8/On/Manual")
	device := manual.Ancestor(func(n *abletonxml.Node) bool { return n.Name == "Device" })
	if device == nil || device.Parent != root {
		t.Fatal("Ancestor did not find Device")
	}

	if got := root.Child("Text").Text; got != "helloworld" {
		t.Fatalf("Text = %q", got)
	}

	off := root.FindFunc(func(n *abletonxml.Node) bool {
		v, ok := n.Value()
		return n.Name == "Manual" && ok && v == "false"
	})
	if len(off) != 1 {
		t.Fatalf("FindFunc matched %d nodes", len(off))
	}
}

func TestNilNodeIsSafe(t *testing.T) {
	var n *abletonxml.Node
	if n.Child("x") != nil || n.Find("x") != nil || n.At("a/b") != nil {
		t.Fatal("nil node lookups should return nil")
	}
	if _, ok := n.Attr("Value"); ok {
		t.Fatal("nil node has no attributes")
	}
	if n.Path() != "" {
		t.Fatal("nil node has empty path")
	}
}
