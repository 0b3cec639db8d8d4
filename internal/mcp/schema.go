package mcp

// GenerateInput defines the input for the mvca_generate tool.
type GenerateInput struct {
	ID                                string   `json:"id,omitempty" jsonschema:"Store id for the community; generated when empty"`
	NumberOfNodes                     *int     `json:"number_of_nodes,omitempty" jsonschema:"Total number of nodes (default 100)"`
	NumberOfElites                    *int     `json:"number_of_elites,omitempty" jsonschema:"Nodes 0..E-1 form the elite partition; 0 gives a mass-only community (default 40)"`
	Degree                            *int     `json:"degree,omitempty" jsonschema:"Out-degree of every node (default 6)"`
	EliteCompetence                   *float64 `json:"elite_competence,omitempty" jsonschema:"Probability that an elite opinion is correct (default 0.7)"`
	MassCompetence                    *float64 `json:"mass_competence,omitempty" jsonschema:"Probability that a mass opinion is correct (default 0.6)"`
	ProbabilityPreferentialAttachment *float64 `json:"probability_preferential_attachment,omitempty" jsonschema:"Probability of a uniform rather than in-degree weighted rewiring choice (default 0.6)"`
	ProbabilityHomophilicAttachment   *float64 `json:"probability_homophilic_attachment,omitempty" jsonschema:"Probability of a same-type edge; omit for uniform wiring"`
	Seed                              *uint64  `json:"seed,omitempty" jsonschema:"Random seed for reproducible generation; drawn when omitted"`
}

// CommunitySummary describes a stored community.
type CommunitySummary struct {
	ID                              string   `json:"id"`
	CreatedAt                       string   `json:"created_at" jsonschema:"Creation time in RFC 3339 format"`
	NumberOfNodes                   int      `json:"number_of_nodes"`
	NumberOfElites                  int      `json:"number_of_elites"`
	Degree                          int      `json:"degree"`
	EdgeCount                       int      `json:"edge_count"`
	ProbabilityHomophilicAttachment *float64 `json:"probability_homophilic_attachment,omitempty"`
}

// GenerateOutput defines the output for the mvca_generate tool.
type GenerateOutput struct {
	Community    CommunitySummary `json:"community" jsonschema:"The stored community"`
	Mode         string           `json:"mode" jsonschema:"How the network was built: uniform or homophilic"`
	DroppedEdges int              `json:"dropped_edges" jsonschema:"Edges discarded during rewiring"`
	Message      string           `json:"message" jsonschema:"Human-readable result message"`
}

// VoteInput defines the input for the mvca_vote tool.
type VoteInput struct {
	ID        string  `json:"id" jsonschema:"Id of a stored community"`
	NumTrials int     `json:"num_trials,omitempty" jsonschema:"Number of independent votes (default 1000)"`
	Alpha     float64 `json:"alpha,omitempty" jsonschema:"Significance level of the confidence interval (default 0.05)"`
	Method    string  `json:"method,omitempty" jsonschema:"Interval method: normal (default) or clopper-pearson or wilson"`
	Seed      *uint64 `json:"seed,omitempty" jsonschema:"Random seed for reproducible voting; drawn when omitted"`
}

// VoteOutput defines the output for the mvca_vote tool.
type VoteOutput struct {
	ID        string  `json:"id"`
	Accuracy  float64 `json:"accuracy" jsonschema:"Share of votes that reached the correct outcome"`
	Precision float64 `json:"precision" jsonschema:"Width of the confidence interval"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Trials    int     `json:"trials"`
	Alpha     float64 `json:"alpha"`
	Method    string  `json:"method"`
}

// InspectInput defines the input for the mvca_inspect tool.
type InspectInput struct {
	ID string `json:"id" jsonschema:"Id of a stored community"`
}

// InspectOutput defines the output for the mvca_inspect tool.
type InspectOutput struct {
	Community           CommunitySummary `json:"community"`
	EliteCompetence     float64          `json:"elite_competence"`
	MassCompetence      float64          `json:"mass_competence"`
	EliteInfluence      int              `json:"elite_influence" jsonschema:"Edges pointing into the elite partition"`
	MassInfluence       int              `json:"mass_influence" jsonschema:"Edges pointing into the mass partition"`
	InfluenceProportion float64          `json:"influence_proportion" jsonschema:"Elite share of all incoming edges"`
	ElitePageRankShare  float64          `json:"elite_pagerank_share" jsonschema:"Share of PageRank held by the elite partition"`
	InDegreeHistogram   map[string]int   `json:"in_degree_histogram" jsonschema:"Number of nodes per in-degree, keyed by in-degree"`
}

// ListInput defines the input for the mvca_list tool.
type ListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of communities to return; 0 returns all"`
}

// ListOutput defines the output for the mvca_list tool.
type ListOutput struct {
	Communities []CommunitySummary `json:"communities"`
	Count       int                `json:"count"`
	Total       int                `json:"total"`
}
