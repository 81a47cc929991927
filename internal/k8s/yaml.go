package k8s

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

func (c *Client) GetRolloutYAML(ctx context.Context, name string) (string, error) {
	u, err := c.dynamic.Resource(rolloutGVR).Namespace(c.namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", classifyError(err, c.serverURL)
	}
	unstructured.RemoveNestedField(u.Object, "metadata", "managedFields")
	data, err := yaml.Marshal(u.Object)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
