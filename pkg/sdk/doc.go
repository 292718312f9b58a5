// Package flowrec provides an embedded Go client for the workflow
// recommendation engine backed by Postgres with pgvector.
//
// The client wires the full recommendation pipeline in-process: embedding
// provider, optional Redis embedding cache, similarity search, chunk
// grouping and preference-weighted ranking.
//
//	client, _ := flowrec.New(ctx,
//	    flowrec.WithPostgres("postgres://localhost/flowrec"),
//	    flowrec.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	    flowrec.WithRedisCache("localhost:6379", ""),
//	)
//	defer client.Close()
//
//	res, _ := client.Recommend(ctx, flowrec.RecommendRequest{
//	    Query:      "sync new CRM leads into a spreadsheet",
//	    MaxResults: 5,
//	})
//	for _, rec := range res.Recommendations {
//	    fmt.Println(rec.Title, rec.PersonalizedScore)
//	}
package flowrec
