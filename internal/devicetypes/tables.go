package devicetypes

// Rack-kind tokens. These are the only devices whose chains are expanded.
const (
	AudioEffectRack = "AudioEffectGroupDevice"
	InstrumentRack  = "InstrumentGroupDevice"
	MidiEffectRack  = "MidiEffectGroupDevice"
	DrumRack        = "DrumGroupDevice"
)

// displayNames maps device tokens to the names Live shows in the browser.
var displayNames = map[string]string{
	// Audio effects
	"AlignDelay":             "Align Delay",
	"Amp":                    "Amp",
	"AudioEffectGroupDevice": "Audio Effect Rack",
	"AutoFilter":             "Auto Filter",
	"AutoPan":                "Auto Pan",
	"AutoShift":              "Auto Shift",
	"BeatRepeat":             "Beat Repeat",
	"Cabinet":                "Cabinet",
	"ChannelEq":              "Channel EQ",
	"Chorus":                 "Chorus-Ensemble",
	"ChromaticChorus":        "Chorus-Ensemble",
	"ChorusEnsemble":         "Chorus-Ensemble",
	"Compressor2":            "Compressor",
	"Compressor":             "Compressor",
	"Corpus":                 "Corpus",
	"Delay":                  "Delay",
	"DrumBuss":               "Drum Buss",
	"DynamicTube":            "Dynamic Tube",
	"Tube":                   "Dynamic Tube",
	"Echo":                   "Echo",
	"EnvelopeFollower":       "Envelope Follower",
	"FilterEQ3":              "EQ Three",
	"Eq3":                    "EQ Three",
	"EQThree":                "EQ Three",
	"Eq8":                    "EQ Eight",
	"EQEight":                "EQ Eight",
	"Erosion":                "Erosion",
	"ExternalAudioEffect":    "External Audio Effect",
	"FilterDelay":            "Filter Delay",
	"Gate":                   "Gate",
	"GlueCompressor":         "Glue Compressor",
	"GrainDelay":             "Grain Delay",
	"HybridReverb":           "Hybrid Reverb",
	"LFO":                    "LFO",
	"Limiter":                "Limiter",
	"Looper":                 "Looper",
	"MultibandDynamics":      "Multiband Dynamics",
	"MultibandCompressor":    "Multiband Dynamics",
	"Overdrive":              "Overdrive",
	"Pedal":                  "Pedal",
	"Phaser":                 "Phaser",
	"PhaserFlanger":          "Phaser-Flanger",
	"Flanger":                "Flanger",
	"PhaserNew":              "Phaser-Flanger",
	"Redux":                  "Redux",
	"Resonators":             "Resonators",
	"Reverb":                 "Reverb",
	"Roar":                   "Roar",
	"Saturator":              "Saturator",
	"Shaper":                 "Shaper",
	"Shifter":                "Shifter",
	"FrequencyShifter":       "Frequency Shifter",
	"Frequency":              "Frequency Shifter",
	"SpectralResonator":      "Spectral Resonator",
	"SpectralTime":           "Spectral Time",
	"Spectrum":               "Spectrum",
	"Tuner":                  "Tuner",
	"Utility":                "Utility",
	"VinylDistortion":        "Vinyl Distortion",
	"Vocoder":                "Vocoder",
	"ConvolutionReverb":      "Convolution Reverb",
	"ConvolutionReverbPro":   "Convolution Reverb Pro",
	"InMeasurementDevice":    "IR Measurement Device",
	"ColorLimiter":           "Color Limiter",
	"GatedDelay":             "Gated Delay",
	"PitchHack":              "Pitch Hack",
	"ReEnveloper":            "Re-Enveloper",
	"SpectralBlur":           "Spectral Blur",
	"VectorDelay":            "Vector Delay",
	"VectorFade":             "Vector Fade",
	"ArrangementLooper":      "Arrangement Looper",
	"Performer":              "Performer",
	"Prearranger":            "Prearranger",
	"VectorGrain":            "Vector Grain",
	"SurroundPanner":         "Surround Panner",

	// Legacy and variant spellings
	"SimpleDelay":   "Simple Delay",
	"PingPongDelay": "Ping Pong Delay",
	"AutoFilter2":   "Auto Filter",
	"Chorus2":       "Chorus",
	"Phaser2":       "Phaser",
	"FilterEQ":      "Filter EQ",
	"EQFilter":      "Filter EQ",
	"BitCrusher":    "Redux",
	"Bitcrusher":    "Redux",
	"Distortion":    "Overdrive",
	"StereoImager":  "Utility",
	"Stereo":        "Utility",
	"StereoGain":    "Utility",
	"Limiter2":      "Limiter",

	// Instruments
	"AnalogDevice":          "Analog",
	"Analog":                "Analog",
	"UltraAnalog":           "Analog",
	"Collision":             "Collision",
	"DrumRack":              "Drum Rack",
	"InstrumentRack":        "Instrument Rack",
	"Electric":              "Electric",
	"ElectricPiano":         "Electric Piano",
	"GrandPiano":            "Grand Piano",
	"ExternalInstrument":    "External Instrument",
	"GranulatorIII":         "Granulator III",
	"Granulator":            "Granulator III",
	"InstrumentImpulse":     "Impulse",
	"Impulse":               "Impulse",
	"Meld":                  "Meld",
	"Operator":              "Operator",
	"Poli":                  "Poli",
	"Sampler":               "Sampler",
	"MultiSampler":          "Sampler",
	"Simpler":               "Simpler",
	"OriginalSimpler":       "Simpler",
	"StringStudio":          "Tension",
	"Tension":               "Tension",
	"Wavetable":             "Wavetable",
	"InstrumentVector":      "Wavetable",
	"Bass":                  "Bass",
	"Drift":                 "Drift",
	"DrumSampler":           "Drum Sampler",
	"DSClang":               "DS Clang",
	"DSClap":                "DS Clap",
	"DSCymbal":              "DS Cymbal",
	"DSFM":                  "DS FM",
	"DSHH":                  "DS HH",
	"DSKick":                "DS Kick",
	"DSSnare":               "DS Snare",
	"DSTom":                 "DS Tom",
	"InstrumentGroupDevice": "Instrument Rack",
	"MidiEffectGroupDevice": "MIDI Effect Rack",
	"DrumGroupDevice":       "Drum Rack",
	"Treee":                 "Tree Tone",
	"VectorFM":              "Vector FM",

	// Drum synths
	"BassDrum": "Bass Drum",
	"Clap":     "Clap",
	"Cymbal":   "Cymbal",
	"FMDrum":   "FM Drum",
	"HiHat":    "Hi Hat",
	"Kick":     "Kick",
	"Perc":     "Perc",
	"Snare":    "Snare",
	"Tom":      "Tom",
	"DSAnalog": "DS Analog",
	"DSDrum":   "DS Drum",
	"DSPenta":  "DS Penta",

	// MIDI effects
	"Arpeggiator":       "Arpeggiator",
	"Arpeggiate":        "Arpeggiator",
	"MidiArpeggiator":   "Arpeggiator",
	"BouncyNotes":       "Bouncy Notes",
	"CCControl":         "CC Control",
	"Chord":             "Chord",
	"MidiChord":         "Chord",
	"EnvelopeMidi":      "Envelope MIDI",
	"ExpressionControl": "Expression Control",
	"ExpressiveChords":  "Expressive Chords",
	"MelodicSteps":      "Melodic Steps",
	"Microtuner":        "Microtuner",
	"MidiEffectRack":    "MIDI Effect Rack",
	"MidiMonitor":       "MIDI Monitor",
	"MPEControl":        "MPE Control",
	"NoteEcho":          "Note Echo",
	"MidiNoteEcho":      "Note Echo",
	"NoteLength":        "Note Length",
	"MidiNoteLength":    "Note Length",
	"Pitch":             "Pitch",
	"MidiPitcher":       "Pitch",
	"Random":            "Random",
	"MidiRandom":        "Random",
	"RhythmicSteps":     "Rhythmic Steps",
	"Scale":             "Scale",
	"MidiScale":         "Scale",
	"ShaperMidi":        "Shaper MIDI",
	"StepSequencer":     "SQ Sequencer",
	"StepArp":           "Step Arp",
	"Velocity":          "Velocity",
	"MidiVelocity":      "Velocity",

	// MIDI tools
	"Connect":                "Connect",
	"Ornament":               "Ornament",
	"Quantize":               "Quantize",
	"Recombine":              "Recombine",
	"Rhythm":                 "Rhythm",
	"Seed":                   "Seed",
	"Shape":                  "Shape",
	"Stacks":                 "Stacks",
	"Strum":                  "Strum",
	"TimeSpan":               "Time Span",
	"TimeWarp":               "Time Warp",
	"Pattern":                "Pattern",
	"MidiEuclideanGenerator": "MIDI Euclidean Generator",
	"MidiVelocityShaper":     "MIDI Velocity Shaper",

	// CV tools
	"CVClockIn":          "CV Clock In",
	"CVClockOut":         "CV Clock Out",
	"CVEnvelopeFollower": "CV Envelope Follower",
	"CVInstrument":       "CV Instrument",
	"CVLFO":              "CV LFO",
	"CVShaper":           "CV Shaper",
	"CVUtility":          "CV Utility",

	// Max for Live
	"MxDeviceInstrument":  "Max for Live Instrument",
	"MxDeviceAudioEffect": "Max for Live Audio Effect",
	"MxDeviceMidiEffect":  "Max for Live MIDI Effect",

	// Plug-in hosts
	"PluginDevice":     "Plug-in",
	"AuPluginDevice":   "Audio Unit Plug-in",
	"Vst3PluginDevice": "VST3 Plug-in",

	// Versioned aliases
	"Operator2":  "Operator",
	"Bass2":      "Bass",
	"Collision2": "Collision",
	"Simpler2":   "Simpler",
	"Sampler2":   "Sampler",
}

// categories maps display names to a coarse functional category.
var categories = map[string]string{
	// Instruments
	"Analog":              "synth",
	"Bass":                "synth",
	"Collision":           "synth",
	"Drift":               "synth",
	"Electric":            "keys",
	"Electric Piano":      "keys",
	"Grand Piano":         "keys",
	"Meld":                "synth",
	"Operator":            "synth",
	"Poli":                "synth",
	"Tension":             "synth",
	"Wavetable":           "synth",
	"Tree Tone":           "synth",
	"Vector FM":           "synth",
	"External Instrument": "synth",
	"Simpler":             "sampler",
	"Sampler":             "sampler",
	"Granulator III":      "sampler",
	"Drum Sampler":        "drums",
	"Impulse":             "drums",
	"Drum Rack":           "drums",
	"Bass Drum":           "drums",
	"Clap":                "drums",
	"Cymbal":              "drums",
	"FM Drum":             "drums",
	"Hi Hat":              "drums",
	"Kick":                "drums",
	"Perc":                "drums",
	"Snare":               "drums",
	"Tom":                 "drums",
	"DS Analog":           "drums",
	"DS Clang":            "drums",
	"DS Clap":             "drums",
	"DS Cymbal":           "drums",
	"DS Drum":             "drums",
	"DS FM":               "drums",
	"DS HH":               "drums",
	"DS Kick":             "drums",
	"DS Penta":            "drums",
	"DS Snare":            "drums",
	"DS Tom":              "drums",

	// Racks
	"Audio Effect Rack": "rack",
	"Instrument Rack":   "rack",
	"MIDI Effect Rack":  "rack",

	// Dynamics
	"Compressor":         "dynamics",
	"Glue Compressor":    "dynamics",
	"Multiband Dynamics": "dynamics",
	"Limiter":            "dynamics",
	"Color Limiter":      "dynamics",
	"Gate":               "dynamics",
	"Drum Buss":          "dynamics",
	"Re-Enveloper":       "dynamics",

	// EQ and filters
	"EQ Eight":           "eq",
	"EQ Three":           "eq",
	"Channel EQ":         "eq",
	"Filter EQ":          "eq",
	"Auto Filter":        "filter",
	"Spectral Resonator": "spectral",
	"Spectral Time":      "spectral",
	"Spectral Blur":      "spectral",
	"Spectrum":           "utility",

	// Reverb and delay
	"Reverb":                 "reverb",
	"Hybrid Reverb":          "reverb",
	"Convolution Reverb":     "reverb",
	"Convolution Reverb Pro": "reverb",
	"Delay":                  "delay",
	"Echo":                   "delay",
	"Align Delay":            "delay",
	"Filter Delay":           "delay",
	"Grain Delay":            "delay",
	"Gated Delay":            "delay",
	"Simple Delay":           "delay",
	"Ping Pong Delay":        "delay",
	"Vector Delay":           "delay",
	"Beat Repeat":            "delay",
	"Looper":                 "delay",

	// Modulation
	"Chorus-Ensemble":   "modulation",
	"Chorus":            "modulation",
	"Phaser":            "modulation",
	"Phaser-Flanger":    "modulation",
	"Flanger":           "modulation",
	"Auto Pan":          "modulation",
	"Shifter":           "modulation",
	"Frequency Shifter": "modulation",
	"LFO":               "modulation",
	"Envelope Follower": "modulation",

	// Distortion and character
	"Saturator":        "distortion",
	"Overdrive":        "distortion",
	"Dynamic Tube":     "distortion",
	"Erosion":          "distortion",
	"Redux":            "distortion",
	"Vinyl Distortion": "distortion",
	"Pedal":            "distortion",
	"Amp":              "distortion",
	"Cabinet":          "distortion",
	"Roar":             "distortion",
	"Shaper":           "distortion",
	"Pitch Hack":       "distortion",

	// Pitch and resonators
	"Auto Shift": "pitch",
	"Corpus":     "pitch",
	"Resonators": "pitch",
	"Vocoder":    "pitch",

	// Utility
	"Utility":               "utility",
	"Tuner":                 "utility",
	"External Audio Effect": "utility",
	"IR Measurement Device": "utility",
	"Surround Panner":       "utility",
	"Vector Fade":           "utility",
	"Vector Grain":          "utility",
	"Arrangement Looper":    "utility",
	"Performer":             "utility",
	"Prearranger":           "utility",

	// MIDI
	"Arpeggiator":              "midi",
	"Bouncy Notes":             "midi",
	"CC Control":               "midi",
	"Chord":                    "midi",
	"Envelope MIDI":            "midi",
	"Expression Control":       "midi",
	"Expressive Chords":        "midi",
	"Melodic Steps":            "midi",
	"Microtuner":               "midi",
	"MIDI Monitor":             "midi",
	"MPE Control":              "midi",
	"Note Echo":                "midi",
	"Note Length":              "midi",
	"Pitch":                    "midi",
	"Random":                   "midi",
	"Rhythmic Steps":           "midi",
	"Scale":                    "midi",
	"Shaper MIDI":              "midi",
	"SQ Sequencer":             "midi",
	"Step Arp":                 "midi",
	"Velocity":                 "midi",
	"Connect":                  "midi",
	"Ornament":                 "midi",
	"Quantize":                 "midi",
	"Recombine":                "midi",
	"Rhythm":                   "midi",
	"Seed":                     "midi",
	"Shape":                    "midi",
	"Stacks":                   "midi",
	"Strum":                    "midi",
	"Time Span":                "midi",
	"Time Warp":                "midi",
	"Pattern":                  "midi",
	"MIDI Euclidean Generator": "midi",
	"MIDI Velocity Shaper":     "midi",

	// CV
	"CV Clock In":          "cv",
	"CV Clock Out":         "cv",
	"CV Envelope Follower": "cv",
	"CV Instrument":        "cv",
	"CV LFO":               "cv",
	"CV Shaper":            "cv",
	"CV Utility":           "cv",

	// Max for Live and plug-ins
	"Max for Live Instrument":   "max_for_live",
	"Max for Live Audio Effect": "max_for_live",
	"Max for Live MIDI Effect":  "max_for_live",
	"Plug-in":                   "plugin",
	"Audio Unit Plug-in":        "plugin",
	"VST3 Plug-in":              "plugin",
}

// instrumentCategories are the categories whose devices generate sound from MIDI.
var instrumentCategories = map[string]struct{}{
	"synth":   {},
	"keys":    {},
	"sampler": {},
	"drums":   {},
}

var instrumentTokens = map[string]struct{}{
	InstrumentRack:       {},
	DrumRack:             {},
	"MxDeviceInstrument": {},
	"CVInstrument":       {},
}
