package session_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"rackscope/internal/abletonxml"
	"rackscope/internal/rack"
	"rackscope/internal/session"
	"rackscope/internal/testsupport"
)

const liveSet = `<?xml version="1.0" encoding="UTF-8"?>
<Ableton MajorVersion="5" MinorVersion="11.0_433" Creator="Ableton Live 11.3.4">
<LiveSet>
  <Annotation Value="demo set"/>
  <Tracks>
    <MidiTrack Id="1">
      <Name><EffectiveName Value="1-MIDI"/><UserName Value="Lead"/></Name>
      <Color Value="12"/>
      <DeviceChain>
        <Mixer><Speaker><Manual Value="true"/></Speaker><SoloSink Value="true"/></Mixer>
        <DeviceChain>
          <Devices>
            <OriginalSimpler Id="0"><On><Manual Value="true"/></On></OriginalSimpler>
            <AudioEffectGroupDevice Id="1">
              <On><Manual Value="false"/></On>
              <UserName Value="Space"/>
              <MacroDisplayNames.0 Value="Size"/>
              <MacroControls.0><Manual Value="64"/></MacroControls.0>
              <Branches>
                <AudioEffectBranch Id="0"><DeviceChain><AudioToAudioDeviceChain><Devices><Reverb Id="0"/></Devices></AudioToAudioDeviceChain></DeviceChain></AudioEffectBranch>
                <AudioEffectBranch Id="1"><DeviceChain><AudioToAudioDeviceChain><Devices><Delay Id="0"/><Eq8 Id="1"/></Devices></AudioToAudioDeviceChain></DeviceChain></AudioEffectBranch>
              </Branches>
            </AudioEffectGroupDevice>
          </Devices>
        </DeviceChain>
        <MainSequencer>
          <ClipSlotList>
            <ClipSlot><ClipSlot><Value><MidiClip Time="0"><CurrentEnd Value="64"/><Notes><KeyTracks><KeyTrack><Notes><MidiNoteEvent Time="0" Velocity="100"/><MidiNoteEvent Time="1" Velocity="90"/></Notes></KeyTrack></KeyTracks></Notes></MidiClip></Value></ClipSlot></ClipSlot>
          </ClipSlotList>
        </MainSequencer>
      </DeviceChain>
      <AutomationEnvelopes><Envelopes>
        <AutomationEnvelope Id="0"><EnvelopeTarget><PointeeId Value="8123"/></EnvelopeTarget><Automation><Events><FloatEvent Time="0" Value="0"/><FloatEvent Time="4" Value="1"/></Events></Automation></AutomationEnvelope>
      </Envelopes></AutomationEnvelopes>
    </MidiTrack>
    <AudioTrack Id="2">
      <Name><EffectiveName Value="2-Audio"/><UserName Value=""/></Name>
      <DeviceChain>
        <Mixer><Speaker><Manual Value="false"/></Speaker><SoloSink Value="false"/></Mixer>
        <MainSequencer><Sample><ArrangerAutomation><Events>
          <AudioClip Time="0"><CurrentEnd Value="30"/><SampleRef><FileRef Missing="true"><Name Value="vox.wav"/><Path Value="/Users/me/vox.wav"/></FileRef></SampleRef></AudioClip>
        </Events></ArrangerAutomation></Sample></MainSequencer>
      </DeviceChain>
    </AudioTrack>
    <ReturnTrack Id="3"><Name><EffectiveName Value="A-Reverb"/></Name></ReturnTrack>
    <GroupTrack Id="4"><Name><EffectiveName Value="Drums"/></Name>
      <DeviceChain><DeviceChain><Devices><MxDeviceAudioEffect Id="0"><UserName Value="Glue"/></MxDeviceAudioEffect></Devices></DeviceChain></DeviceChain>
    </GroupTrack>
  </Tracks>
  <MasterTrack>
    <DeviceChain><Mixer>
      <Tempo><Manual Value="120"/></Tempo>
      <TimeSignature><Manual Value="201"/></TimeSignature>
    </Mixer></DeviceChain>
  </MasterTrack>
  <Locators><Locators>
    <Locator Id="0"><Time Value="0"/><Name Value="Intro"/></Locator>
    <Locator Id="1"><Time Value="16"/><Name Value=""/></Locator>
  </Locators></Locators>
</LiveSet>
</Ableton>`

func analyze(t *testing.T, document string) *session.Analysis {
	t.Helper()
	doc, err := abletonxml.Decode(testsupport.Gzip(t, document), "set.als")
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	return session.Analyze(doc, session.Options{Filename: "set.als"})
}

func TestAnalyzeMetadata(t *testing.T) {
	got := analyze(t, liveSet)
	md := got.Metadata
	if md.Tempo == nil || *md.Tempo != 120 {
		t.Fatalf("expected tempo 120, got %v", md.Tempo)
	}
	if md.TimeSignature != "4/4" {
		t.Fatalf("expected 4/4, got %q", md.TimeSignature)
	}
	if md.AbletonVersion != "5.11" {
		t.Fatalf("unexpected version %q", md.AbletonVersion)
	}
	if md.Comments != "demo set" {
		t.Fatalf("unexpected comments %q", md.Comments)
	}
	// 30 beats at 120 bpm.
	if md.DurationSeconds == nil || *md.DurationSeconds != 15 {
		t.Fatalf("expected 15s duration, got %v", md.DurationSeconds)
	}
	if len(got.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", got.Warnings)
	}
}

func TestAnalyzeTracks(t *testing.T) {
	got := analyze(t, liveSet).Tracks
	if got.Total != 4 || got.Audio != 1 || got.MIDI != 1 || got.Return != 1 || got.Group != 1 {
		t.Fatalf("unexpected counts %+v", got)
	}

	lead := got.Details[0]
	if lead.Name != "Lead" || lead.Type != session.TrackMIDI || lead.Color != "12" {
		t.Fatalf("unexpected lead track %+v", lead)
	}
	if lead.IsMuted || !lead.IsSoloed || !lead.HasAutomation || lead.ClipCount != 1 {
		t.Fatalf("unexpected lead track flags %+v", lead)
	}
	wantDevices := []session.TrackDevice{
		{Type: "OriginalSimpler", Name: "Simpler", IsOn: true},
		{Type: "AudioEffectGroupDevice", Name: "Space", IsOn: false},
	}
	if diff := cmp.Diff(wantDevices, lead.Devices); diff != "" {
		t.Fatalf("devices mismatch (-want +got):\n%s", diff)
	}

	audio := got.Details[1]
	if audio.Name != "2-Audio" || !audio.IsMuted || audio.IsSoloed {
		t.Fatalf("unexpected audio track %+v", audio)
	}
	if got.Details[3].Devices[0].Name != "Glue" {
		t.Fatalf("unexpected group devices %+v", got.Details[3].Devices)
	}
}

func TestAnalyzeEmbeddedRacks(t *testing.T) {
	got := analyze(t, liveSet).EmbeddedRacks
	want := []session.EmbeddedRack{{
		Type:        "AudioEffectGroupDevice",
		Name:        "Space",
		Track:       "Lead",
		Macros:      []rack.MacroControl{{Name: "Size", Value: 64, Index: 0}},
		ChainCount:  2,
		DeviceCount: 3,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("racks mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeDependenciesAndArrangement(t *testing.T) {
	got := analyze(t, liveSet)

	if len(got.Dependencies.MissingSamples) != 1 || got.Dependencies.MissingSamples[0].Name != "vox.wav" {
		t.Fatalf("unexpected missing samples %+v", got.Dependencies.MissingSamples)
	}
	if len(got.Dependencies.MaxForLive) != 1 || len(got.Dependencies.Plugins) != 0 {
		t.Fatalf("unexpected dependencies %+v", got.Dependencies)
	}
	wantCompat := session.Compatibility{
		MinAbletonVersion:  "5.11",
		MaxForLiveRequired: true,
		MissingSampleCount: 1,
	}
	if diff := cmp.Diff(wantCompat, got.Compatibility); diff != "" {
		t.Fatalf("compatibility mismatch (-want +got):\n%s", diff)
	}

	wantAuto := session.Automation{
		HasAutomation:       true,
		AutomatedParameters: 1,
		Lanes:               []session.AutomationLane{{Target: "8123", Points: 2}},
	}
	if diff := cmp.Diff(wantAuto, got.Automation); diff != "" {
		t.Fatalf("automation mismatch (-want +got):\n%s", diff)
	}

	wantArr := session.Arrangement{
		Locators:    []session.Locator{{Name: "Intro", Time: 0}, {Name: "Unnamed", Time: 16}},
		LengthBeats: 30,
		TotalBars:   8,
	}
	if diff := cmp.Diff(wantArr, got.Arrangement); diff != "" {
		t.Fatalf("arrangement mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(session.ClipSummary{Audio: 1, MIDI: 1, Notes: 2}, got.Clips); diff != "" {
		t.Fatalf("clips mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeAttributeForm(t *testing.T) {
	got := analyze(t, `<Ableton>
<LiveSet Author="Sam" CreationDate="2023-05-01" LastModified="2023-06-01" MinVersion="10.1">
  <TimeSignature Numerator="6" Denominator="8"/>
  <Tempo Value="90"/>
  <Arrangement Duration="60"/>
  <ReturnTrack Name="Verb" Muted="true" Solo="false"/>
  <ExternalPlugin Name="Old Synth" Vendor="Acme"/>
</LiveSet>
</Ableton>`)

	md := got.Metadata
	if md.TimeSignature != "6/8" || md.Author != "Sam" || md.CreatedDate != "2023-05-01" || md.LastModified != "2023-06-01" {
		t.Fatalf("unexpected metadata %+v", md)
	}
	if md.Tempo == nil || *md.Tempo != 90 || md.DurationSeconds == nil || *md.DurationSeconds != 60 {
		t.Fatalf("unexpected tempo/duration %+v", md)
	}
	// 60s at 90 bpm is 90 beats; a 6/8 bar is 3 beats.
	if got.Arrangement.TotalBars != 30 {
		t.Fatalf("expected 30 bars, got %d", got.Arrangement.TotalBars)
	}
	if got.Compatibility.MinAbletonVersion != "10.1" || got.Compatibility.ExternalPluginCount != 1 {
		t.Fatalf("unexpected compatibility %+v", got.Compatibility)
	}
	verb := got.Tracks.Details[0]
	if verb.Name != "Verb" || !verb.IsMuted || verb.Type != session.TrackReturn {
		t.Fatalf("unexpected track %+v", verb)
	}
}

func TestAnalyzeNotALiveSet(t *testing.T) {
	got := analyze(t, `<Ableton><GroupDevicePreset/></Ableton>`)
	want := []string{"No LiveSet element found; document does not look like a Live set"}
	if diff := cmp.Diff(want, got.Warnings); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
	if got.Tracks.Details == nil || got.EmbeddedRacks == nil || got.Arrangement.Locators == nil {
		t.Fatal("list fields must never be nil")
	}
	if got.Metadata.TimeSignature != "4/4" || got.Compatibility.MinAbletonVersion != session.DefaultMinVersion {
		t.Fatalf("unexpected defaults %+v %+v", got.Metadata, got.Compatibility)
	}
}
