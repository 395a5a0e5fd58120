// Package cardiofeat embeds the heart-disease feature pipeline and classifier in-process.
//
// A client trains on a CSV dataset, publishes the fitted artifacts to a directory,
// Redis or an S3-compatible bucket, and serves predictions from the published generation.
//
//	client, _ := cardiofeat.New(ctx, cardiofeat.WithDirectory("./artifacts"))
//	defer client.Close()
//
//	f, _ := os.Open("heart.csv")
//	res, _ := client.Train(ctx, f)
//
//	preds, _ := client.Predict(ctx, []cardiofeat.Patient{{Age: 54, ChestPain: 4, ...}})
//
// Inference before any training run fails with ErrMissingConfiguration.
package cardiofeat
