package main

import (
	"fmt"
	"os"

	appsv1 "github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/apps/v1"
	corev1 "github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/core/v1"
	metav1 "github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/meta/v1"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"gitlab.com/pnathan/phfwd/src/lib/phfwdapi"
)

// configData is the rule set shipped to the pods, checked before deploying
// so a bad rule fails the preview rather than the rollout.
func configData(filename string) (string, error) {
	rs := phfwdapi.NewRuleSet(nil)
	if filename != "" {
		var err error
		rs, err = phfwdapi.ReadRuleSet(filename)
		if err != nil {
			return "", err
		}
	}
	pf, err := rs.Build()
	if err != nil {
		return "", err
	}
	return string(MustMarshal(phfwdapi.NewRuleSet(pf.Rules()))), nil
}

const (
	rulesDir  = "/etc/phfwd/"
	rulesFile = "rules.json"
	port      = 1337
)

// serverContainer runs phfwd-server against the rules mounted from volume.
func serverContainer(image string, volume pulumi.StringInput) corev1.ContainerArgs {
	return corev1.ContainerArgs{
		Name:            pulumi.String("phfwd"),
		Image:           pulumi.String(image),
		ImagePullPolicy: pulumi.String("Always"),
		Args: pulumi.ToStringArray([]string{
			"/phfwd-server", "-p", fmt.Sprint(port), "-r", rulesDir + rulesFile,
		}),
		Ports: corev1.ContainerPortArray{
			corev1.ContainerPortArgs{ContainerPort: pulumi.Int(port)},
		},
		ReadinessProbe: &corev1.ProbeArgs{
			HttpGet: &corev1.HTTPGetActionArgs{
				Path: pulumi.String("/healthz"),
				Port: pulumi.Int(port),
			},
		},
		VolumeMounts: &corev1.VolumeMountArray{
			&corev1.VolumeMountArgs{Name: volume, MountPath: pulumi.String(rulesDir)},
		},
	}
}

func main() {
	name := "phfwd"
	version := os.Getenv("PHFWD_VERSION")
	rulesPath := os.Getenv("PHFWD_RULES")
	pulumi.Run(func(ctx *pulumi.Context) error {
		rules, err := configData(rulesPath)
		if err != nil {
			return err
		}

		labels := pulumi.StringMap{
			"app":     pulumi.String(name),
			"version": pulumi.String(version),
		}
		md := &metav1.ObjectMetaArgs{
			Labels:    labels,
			Namespace: pulumi.StringPtr(name),
			Name:      pulumi.StringPtr(name),
		}

		rulesMap, err := corev1.NewConfigMap(ctx, name, &corev1.ConfigMapArgs{
			Metadata: md,
			Data:     pulumi.StringMap{rulesFile: pulumi.String(rules)},
		})
		if err != nil {
			return err
		}

		svc, err := corev1.NewService(ctx, name, &corev1.ServiceArgs{
			Metadata: md,
			Spec: corev1.ServiceSpecArgs{
				Ports: corev1.ServicePortArray{
					corev1.ServicePortArgs{TargetPort: pulumi.Int(port), Port: pulumi.Int(80)},
				},
				Selector: labels,
			},
		})
		if err != nil {
			return err
		}

		volume := pulumi.String("phfwd-rules")
		image := fmt.Sprintf("gcr.io/sapient-fabric-207305/phfwd:%s", version)
		dep, err := appsv1.NewDeployment(ctx, name, &appsv1.DeploymentArgs{
			Metadata: md,
			Spec: appsv1.DeploymentSpecArgs{
				Replicas: pulumi.Int(2),
				Selector: &metav1.LabelSelectorArgs{MatchLabels: labels},
				Template: &corev1.PodTemplateSpecArgs{
					Metadata: &metav1.ObjectMetaArgs{Labels: labels},
					Spec: &corev1.PodSpecArgs{
						Containers: corev1.ContainerArray{serverContainer(image, volume)},
						Volumes: &corev1.VolumeArray{
							&corev1.VolumeArgs{
								Name:      volume,
								ConfigMap: &corev1.ConfigMapVolumeSourceArgs{Name: rulesMap.Metadata.Name()},
							},
						},
					},
				},
			},
		})
		if err != nil {
			return err
		}

		ctx.Export("service", svc.Metadata.Name())
		ctx.Export("deployment", dep.Metadata.Name())
		ctx.Export("rules", pulumi.String(rules))
		return nil
	})
}
