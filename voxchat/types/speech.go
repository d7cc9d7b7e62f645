package types

type TranscribeResponse struct {
	Text string `json:"text"`
}

type SynthesizeRequest struct {
	Text string `json:"text"`
}
